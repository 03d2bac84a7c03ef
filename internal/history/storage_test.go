package history

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "statements"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			name      string
			savedName string
			err       error
		)

		BeforeEach(func() {
			name = "id_statement.pdf"
		})

		JustBeforeEach(func() {
			savedName, err = storage.Save(name, []byte("test file content"))
		})

		When("saving succeeds", func() {
			It("should return the stored name", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedName).To(Equal(name))
			})

			It("should create the storage directory and the file", func() {
				Expect(filepath.Join(tmpDir, "statements", name)).To(BeAnExistingFile())
			})
		})

		When("the name escapes the storage directory", func() {
			BeforeEach(func() {
				name = "../outside.pdf"
			})

			It("should refuse it", func() {
				Expect(err).To(HaveOccurred())
				Expect(filepath.Join(tmpDir, "outside.pdf")).NotTo(BeAnExistingFile())
			})
		})

		When("the name is empty", func() {
			BeforeEach(func() {
				name = ""
			})

			It("should refuse it", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("a.txt", []byte("hello"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return its content", func() {
				data, err := storage.Get("a.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("hello")))
			})
		})

		When("the file does not exist", func() {
			It("should return an error", func() {
				_, err := storage.Get("missing.txt")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("a.txt", []byte("hello"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove it", func() {
				Expect(storage.Delete("a.txt")).To(Succeed())
				Expect(filepath.Join(tmpDir, "statements", "a.txt")).NotTo(BeAnExistingFile())
			})
		})

		When("the file does not exist", func() {
			It("should return an error", func() {
				Expect(storage.Delete("missing.txt")).NotTo(Succeed())
			})
		})
	})
})
