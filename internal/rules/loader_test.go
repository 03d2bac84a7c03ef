package rules_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/zombor/ccs-extract/internal/rules"
)

var _ = Describe("Load", func() {
	var (
		tmpDir string
		path   string
		rs     *rules.RuleSet
		err    error
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		path = ""
	})

	JustBeforeEach(func() {
		rs, err = rules.Load(path)
	})

	write := func(name, content string) {
		path = filepath.Join(tmpDir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
	}

	When("no path is given", func() {
		It("returns the defaults", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rs.NormalizeMerchant("WOOLWORTHS 123")).To(Equal("Woolworths"))
		})
	})

	When("the file does not exist", func() {
		BeforeEach(func() {
			path = filepath.Join(tmpDir, "missing.yaml")
		})

		It("returns an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("loading yaml", func() {
		BeforeEach(func() {
			write("rules.yaml", `
merchants:
  - pattern: "joe'?s hardware"
    name: Joe's Hardware
categories:
  - name: Hardware
    keywords: [hardware, bunnings]
  - name: Dining
    keywords: [bistro]
rules:
  - name: Big spend
    pattern: "hardware"
    category: Renovation
    priority: 3
    amount:
      operator: ">"
      value: 500
`)
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("evaluates user merchants before defaults", func() {
			Expect(rs.NormalizeMerchant("JOES HARDWARE 12")).To(Equal("Joe's Hardware"))
			Expect(rs.NormalizeMerchant("COLES 0123")).To(Equal("Coles"))
		})

		It("puts new categories ahead of the defaults", func() {
			Expect(rs.Categories[0].Name).To(Equal("Hardware"))
			Expect(rs.Categorize("BUNNINGS")).To(Equal("Hardware"))
		})

		It("replaces keywords of a default category in place", func() {
			Expect(rs.Categorize("CITY CAFE")).To(Equal(rules.OtherCategory))
			Expect(rs.Categorize("CITY BISTRO")).To(Equal("Dining"))
			Expect(rs.Categories[2].Name).To(Equal("Dining"))
		})

		It("loads custom rules with conditions", func() {
			date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			Expect(rs.Classify("HARDWARE", decimal.RequireFromString("600"), date)).To(Equal("Renovation"))
			Expect(rs.Classify("HARDWARE", decimal.RequireFromString("60"), date)).To(Equal("Hardware"))
		})
	})

	When("loading toml", func() {
		BeforeEach(func() {
			write("rules.toml", `
replace_defaults = true

[[merchants]]
pattern = "acme"
name = "Acme"

[[categories]]
name = "Widgets"
keywords = ["acme"]

[[rules]]
name = "New year"
pattern = "acme"
category = "Celebration"
priority = 1
  [rules.date]
  operator = ">="
  value = "2025-01-01"
`)
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("uses only the declared entries", func() {
			Expect(rs.NormalizeMerchant("WOOLWORTHS")).To(Equal("WOOLWORTHS"))
			Expect(rs.Categorize("WOOLWORTHS")).To(Equal(rules.OtherCategory))
			Expect(rs.Categorize("ACME PTY")).To(Equal("Widgets"))
		})

		It("applies date conditions", func() {
			Expect(rs.Classify("ACME", decimal.Zero, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))).To(Equal("Celebration"))
			Expect(rs.Classify("ACME", decimal.Zero, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))).To(Equal("Widgets"))
		})
	})

	When("loading json", func() {
		BeforeEach(func() {
			write("rules.json", `{
  "rules": [
    {"name": "gym", "pattern": "FITNESS", "is_regex": false, "category": "Fitness",
     "amount": {"operator": "==", "value": 19.95}}
  ]
}`)
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("parses numeric condition values", func() {
			Expect(rs.Classify("fitness first", decimal.RequireFromString("19.95"), time.Time{})).To(Equal("Fitness"))
		})
	})

	When("the file is invalid", func() {
		BeforeEach(func() {
			write("rules.yaml", `
merchants:
  - pattern: "(["
    name: Broken
  - pattern: "ok"
categories:
  - name: Dupe
  - name: dupe
rules:
  - name: bad op
    pattern: x
    category: X
    amount:
      operator: "~="
      value: 1
`)
		})

		It("returns a configuration error", func() {
			Expect(errors.Is(err, rules.ErrConfigurationInvalid)).To(BeTrue())
		})

		It("lists every problem", func() {
			var cfgErr *rules.ConfigurationInvalidError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Path).To(Equal(path))
			Expect(cfgErr.Problems).To(HaveLen(4))
		})
	})

	When("the file has unknown fields", func() {
		BeforeEach(func() {
			write("rules.yaml", "merchant:\n  - pattern: x\n")
		})

		It("returns a configuration error", func() {
			Expect(errors.Is(err, rules.ErrConfigurationInvalid)).To(BeTrue())
		})
	})

	When("the extension is unsupported", func() {
		BeforeEach(func() {
			write("rules.ini", "x=1")
		})

		It("returns a configuration error", func() {
			Expect(errors.Is(err, rules.ErrConfigurationInvalid)).To(BeTrue())
		})
	})
})

var _ = Describe("Template", func() {
	It("parses as a valid rule file", func() {
		rs, err := rules.Parse(rules.Template(), rules.FormatYAML)
		Expect(err).NotTo(HaveOccurred())
		Expect(rs.NormalizeMerchant("KFC BRISBANE")).To(Equal("KFC"))
		Expect(rs.Classify("COLES", decimal.RequireFromString("250"), time.Now())).To(Equal("Groceries (bulk)"))
	})
})
