package statement

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolvePeriod", func() {
	DescribeTable("declarations",
		func(line string, start, end time.Time) {
			p, ok := ResolvePeriod(Text{"ACME BANK\n" + line + "\n15 Mar $1.00 COLES"})
			Expect(ok).To(BeTrue())
			Expect(p.Start).To(Equal(start))
			Expect(p.End).To(Equal(end))
		},
		Entry("statement period", "Statement Period: 1 Dec 2024 to 31 Jan 2025", day(2024, time.December, 1), day(2025, time.January, 31)),
		Entry("billing period with full month names", "Billing period 1 March 2024 through 31 March 2024", day(2024, time.March, 1), day(2024, time.March, 31)),
		Entry("slash dates", "Transactions from 01/02/2024 to 29/02/2024", day(2024, time.February, 1), day(2024, time.February, 29)),
		Entry("hyphen separator", "Period 5 Jan 2024 - 4 Feb 2024", day(2024, time.January, 5), day(2024, time.February, 4)),
		Entry("year only on the end bound", "Statement period 15 Dec to 14 Jan 2025", day(2024, time.December, 15), day(2025, time.January, 14)),
		Entry("year only on the start bound", "Statement period 15 Dec 2024 until 14 Jan", day(2024, time.December, 15), day(2025, time.January, 14)),
	)

	DescribeTable("ignored declarations",
		func(line string) {
			_, ok := ResolvePeriod(Text{line})
			Expect(ok).To(BeFalse())
		},
		Entry("no year anywhere", "Statement period 1 Dec to 31 Jan"),
		Entry("start after end", "Statement period 1 Feb 2025 to 1 Jan 2025"),
		Entry("impossible date", "Statement period 30 Feb 2024 to 31 Mar 2024"),
		Entry("no declaration", "15 Mar 2024 $1.00 COLES"),
	)

	It("uses the first valid declaration", func() {
		p, ok := ResolvePeriod(Text{
			"Statement period 1 Dec to 31 Jan",
			"Statement period 1 Jun 2023 to 30 Jun 2023\nPeriod 1 Jul 2023 to 31 Jul 2023",
		})
		Expect(ok).To(BeTrue())
		Expect(p.Start).To(Equal(day(2023, time.June, 1)))
	})

	It("reports containment", func() {
		p := Period{Start: day(2024, time.December, 1), End: day(2025, time.January, 31)}
		Expect(p.Contains(day(2025, time.January, 31))).To(BeTrue())
		Expect(p.Contains(day(2025, time.February, 1))).To(BeFalse())
		Expect(Period{}.Contains(day(2025, time.January, 1))).To(BeFalse())
	})
})

var _ = Describe("ResolveDate", func() {
	var (
		period Period
		now    time.Time
	)

	BeforeEach(func() {
		period = Period{Start: day(2024, time.December, 1), End: day(2025, time.January, 31)}
		now = day(2026, time.June, 1)
	})

	DescribeTable("with a period",
		func(fragment string, expected time.Time) {
			t, inferred, err := ResolveDate(fragment, period, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(inferred).To(BeFalse())
			Expect(t).To(Equal(expected))
		},
		Entry("month in the start year", "15 Dec", day(2024, time.December, 15)),
		Entry("month in the end year", "03 Jan", day(2025, time.January, 3)),
		Entry("explicit year wins", "03 Jan 2023", day(2023, time.January, 3)),
		Entry("full month name", "3 January", day(2025, time.January, 3)),
		Entry("slash form", "03/01", day(2025, time.January, 3)),
		Entry("slash form with year", "03/01/2022", day(2022, time.January, 3)),
	)

	It("falls back to the current year without a period", func() {
		t, inferred, err := ResolveDate("17 Jan", Period{}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(inferred).To(BeTrue())
		Expect(t).To(Equal(day(2026, time.January, 17)))
	})

	DescribeTable("invalid fragments",
		func(fragment string) {
			_, _, err := ResolveDate(fragment, period, now)
			Expect(errors.Is(err, ErrInvalidDate)).To(BeTrue())
			var dateErr *InvalidDateError
			Expect(errors.As(err, &dateErr)).To(BeTrue())
		},
		Entry("31 Feb", "31 Feb 2024"),
		Entry("32 Jan", "32 Jan"),
		Entry("unknown month", "15 Foo"),
		Entry("month 13", "15/13/2024"),
		Entry("day zero", "0 Mar 2024"),
	)
})

var _ = Describe("ParseAmount", func() {
	It("handles thousands separators", func() {
		a, err := ParseAmount("$1,234.56", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.StringFixed(2)).To(Equal("1234.56"))
	})

	It("negates credits", func() {
		a, err := ParseAmount("67.89", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.StringFixed(2)).To(Equal("-67.89"))
	})

	It("rejects garbage", func() {
		_, err := ParseAmount("$1.2.3", false)
		Expect(errors.Is(err, ErrInvalidAmount)).To(BeTrue())
	})
})
