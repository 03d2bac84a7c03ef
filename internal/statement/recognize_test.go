package statement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recognize", func() {
	var (
		text       Text
		opts       Options
		stats      Stats
		candidates []Candidate
		skipped    []Skipped
	)

	BeforeEach(func() {
		opts = Options{}
		stats = Stats{}
	})

	JustBeforeEach(func() {
		candidates, skipped = Recognize(text, opts, &stats)
	})

	When("lines use each supported shape", func() {
		BeforeEach(func() {
			text = Text{
				"15 Mar $1.00 A\n" +
					"15 Mar 2024 1.00 B\n" +
					"15 March 2024 $1,000.00 C\n" +
					"15/03 $2.00 D\n" +
					"15/03/2024 $3.00 E\n" +
					"  15 Mar 2024   $4.00   F G  ",
			}
		})

		It("recognises every line", func() {
			Expect(candidates).To(HaveLen(6))
			Expect(skipped).To(BeEmpty())
		})

		It("keeps the raw fragments", func() {
			Expect(candidates[2].DateFragment).To(Equal("15 March 2024"))
			Expect(candidates[2].AmountText).To(Equal("$1,000.00"))
			Expect(candidates[3].DateFragment).To(Equal("15/03"))
			Expect(candidates[5].Description).To(Equal("F G"))
		})
	})

	When("a credit marker is present", func() {
		BeforeEach(func() {
			text = Text{
				"16 Mar 2024 $67.89 CR REFUND NETFLIX.COM\n" +
					"16 Mar 2024 cr $1.00 PAYMENT\n" +
					"16 Mar 2024 $1.00 CRAZY JOHNS",
			}
		})

		It("flags credits by whole token", func() {
			Expect(candidates).To(HaveLen(3))
			Expect(candidates[0].IsCredit).To(BeTrue())
			Expect(candidates[0].Description).To(Equal("CR REFUND NETFLIX.COM"))
			Expect(candidates[1].IsCredit).To(BeTrue())
			Expect(candidates[1].Description).To(Equal("PAYMENT"))
			Expect(candidates[2].IsCredit).To(BeFalse())
		})
	})

	When("the credit marker is attached to the amount", func() {
		BeforeEach(func() {
			text = Text{
				"15 Mar 2024 $67.89CR NETFLIX.COM\n" +
					"15 Mar 2024 $1.00cr PAYMENT",
			}
		})

		It("flags the credit and keeps the amount clean", func() {
			Expect(candidates).To(HaveLen(2))
			Expect(candidates[0].IsCredit).To(BeTrue())
			Expect(candidates[0].AmountText).To(Equal("$67.89"))
			Expect(candidates[0].Description).To(Equal("NETFLIX.COM"))
			Expect(candidates[0].Text).To(Equal("15 Mar 2024 $67.89CR NETFLIX.COM"))
			Expect(candidates[1].IsCredit).To(BeTrue())
			Expect(stats.AmbiguousLines).To(Equal(0))
		})
	})

	DescribeTable("words that are not months",
		func(line string) {
			candidates, _ := Recognize(Text{line}, Options{}, nil)
			Expect(candidates).To(BeEmpty())
		},
		Entry("a count of payments", "2 Payments $1,500.00 Total this period"),
		Entry("a count of transactions", "3 Transactions $245.00 this period"),
		Entry("a month prefix", "15 Marketing $5.00 FEE"),
	)

	When("an amount appears in free text", func() {
		BeforeEach(func() {
			text = Text{"Minimum payment due $25.00 by 15 Apr 2024"}
		})

		It("is not a transaction", func() {
			Expect(candidates).To(BeEmpty())
			Expect(stats.AmbiguousLines).To(Equal(1))
			Expect(skipped[0].Reason).To(MatchError(ErrAmbiguousLine))
		})
	})

	When("a line has a date and amount but no description", func() {
		BeforeEach(func() {
			text = Text{"15 Mar 2024 $12.00"}
		})

		It("is ambiguous", func() {
			Expect(candidates).To(BeEmpty())
			Expect(stats.AmbiguousLines).To(Equal(1))
		})
	})

	When("a line has neither a date nor an amount", func() {
		BeforeEach(func() {
			text = Text{"Page 1 of 3"}
		})

		It("is skipped", func() {
			Expect(stats.LinesSkipped).To(Equal(1))
			Expect(skipped[0].Reason).To(MatchError(ErrNoTransaction))
		})
	})

	When("joining wrapped lines", func() {
		BeforeEach(func() {
			opts = Options{JoinWrapped: true}
			text = Text{
				"15 Mar 2024 $20.00 FIRST\n" +
					"continued here\n" +
					"\n" +
					"not joined after a blank\n" +
					"16 Mar 2024 $1.00 SECOND\n" +
					"Closing balance $21.00\n" +
					"Statement period 1 Mar 2024 to 31 Mar 2024",
			}
		})

		It("joins only plain continuation lines", func() {
			Expect(candidates).To(HaveLen(2))
			Expect(candidates[0].Description).To(Equal("FIRST continued here"))
			Expect(candidates[1].Description).To(Equal("SECOND"))
		})

		It("counts the rest as usual", func() {
			Expect(stats.LinesSkipped).To(Equal(2))
			Expect(stats.AmbiguousLines).To(Equal(1))
		})
	})

	When("stats is nil", func() {
		It("does not panic", func() {
			Expect(func() { Recognize(Text{"x"}, Options{}, nil) }).NotTo(Panic())
		})
	})
})
