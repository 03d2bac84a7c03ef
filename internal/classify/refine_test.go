package classify

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/ccs-extract/internal/statement"
)

// mockClassifier is a mock implementation of Classifier
type mockClassifier struct {
	answers map[string]string
	err     error
	calls   int
}

func (m *mockClassifier) Classify(ctx context.Context, description string, categories []string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if answer, ok := m.answers[description]; ok {
		return answer, nil
	}
	return "Other", nil
}

func (m *mockClassifier) Close() error {
	return nil
}

var _ = Describe("Refine", func() {
	var (
		classifier *mockClassifier
		records    []statement.Record
		changed    int
	)

	BeforeEach(func() {
		classifier = &mockClassifier{answers: map[string]string{"BOB'S BURGERS": "Dining"}}
		records = []statement.Record{
			{Details: "COLES", Category: "Groceries"},
			{Details: "BOB'S BURGERS", Category: "Other"},
			{Details: "MYSTERY", Category: "Other"},
			{Details: "BOB'S BURGERS", Category: "Other"},
		}
	})

	JustBeforeEach(func() {
		changed = Refine(context.Background(), classifier, records, []string{"Groceries", "Dining", "Other"})
	})

	It("only replaces Other", func() {
		Expect(records[0].Category).To(Equal("Groceries"))
		Expect(records[1].Category).To(Equal("Dining"))
		Expect(records[2].Category).To(Equal("Other"))
		Expect(changed).To(Equal(2))
	})

	It("asks once per description", func() {
		Expect(classifier.calls).To(Equal(2))
	})

	When("the classifier fails", func() {
		BeforeEach(func() {
			classifier.err = errors.New("quota exceeded")
		})

		It("keeps Other", func() {
			Expect(changed).To(Equal(0))
			Expect(records[1].Category).To(Equal("Other"))
		})
	})
})
