package classify

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server     *ghttp.Server
		classifier *Ollama
		category   string
		err        error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		classifier, err = NewOllama(server.URL()+"/", "test-model")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		category, err = classifier.Classify(context.Background(), "BOB'S BURGERS", []string{"Dining", "Other"})
	})

	When("the server answers with a known category", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				ghttp.VerifyJSONRepresenting(map[string]any{
					"model":  "test-model",
					"stream": false,
					"format": "json",
					"messages": []map[string]string{
						{"role": "system", "content": "You sort credit card transactions into spending categories. You answer with JSON only."},
						{"role": "user", "content": buildPrompt("BOB'S BURGERS", []string{"Dining", "Other"})},
					},
				}),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"message": map[string]string{"role": "assistant", "content": `{"category":"Dining"}`},
					"done":    true,
				}),
			))
		})

		It("returns the category", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(category).To(Equal("Dining"))
		})
	})

	When("the server fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns the status in the error", func() {
			Expect(err).To(MatchError(ContainSubstring("status 500")))
		})
	})
})
