package rules

import "regexp"

// defaultMerchants is evaluated in order, so specific brands come before the
// generic venue patterns at the end
var defaultMerchants = [][2]string{
	// Groceries
	{`woolworths|woolies`, "Woolworths"},
	{`\bcoles\b`, "Coles"},
	{`\baldi\b`, "Aldi"},
	{`\biga\b`, "IGA"},
	{`nestl[eé]`, "Nestlé Australia"},

	// Fuel
	{`7-eleven|7 eleven`, "7-Eleven"},
	{`\bbp\b|british petroleum`, "BP"},
	{`\bshell\b`, "Shell"},
	{`caltex`, "Caltex"},
	{`united petroleum`, "United Petroleum"},

	// Transport
	{`\buber\b`, "Uber"},
	{`\btaxi\b|\bcab\b`, "Taxi"},
	{`translink|go card`, "Public Transport"},

	// Online services
	{`netflix`, "Netflix"},
	{`spotify`, "Spotify"},
	{`amazon`, "Amazon"},
	{`apple\.com|itunes`, "Apple"},

	// Retail
	{`bunnings`, "Bunnings Warehouse"},
	{`jb ?hi[- ]?fi`, "JB Hi-Fi"},
	{`harvey ?norman`, "Harvey Norman"},
	{`good guys`, "The Good Guys"},
	{`officeworks`, "Officeworks"},
	{`kmart`, "Kmart"},
	{`\btarget\b`, "Target"},
	{`\bbig w\b`, "Big W"},
	{`david jones`, "David Jones"},
	{`\bmyer\b`, "Myer"},

	// Utilities
	{`origin energy`, "Origin Energy"},
	{`\bagl\b`, "AGL"},
	{`telstra`, "Telstra"},
	{`optus`, "Optus"},

	// Insurance
	{`budget direct`, "Budget Direct"},
	{`\bnrma\b`, "NRMA"},
	{`\bracq\b`, "RACQ"},
	{`\bracv\b`, "RACV"},
	{`\baami\b`, "AAMI"},

	// Food chains
	{`soul\s*origin`, "Soul Origin"},
	{`sushi\s*sushi`, "Sushi Sushi"},
	{`subway`, "Subway"},

	// Generic venues
	{`cafe|coffee`, "Cafe"},
	{`restaurant|dining`, "Restaurant"},
	{`\bpub\b|tavern`, "Pub"},
	{`pharmacy|chemist`, "Pharmacy"},
}

var defaultCategories = []Category{
	{Name: "Groceries", Keywords: []string{"woolworths", "coles", "aldi", "iga", "supermarket", "foodworks"}},
	{Name: "Dining", Keywords: []string{"restaurant", "cafe", "coffee", "pub", "tavern", "bistro", "soul origin", "sushi sushi", "subway"}},
	{Name: "Transport", Keywords: []string{"uber", "taxi", "cab", "translink", "go card", "train", "bus", "parking"}},
	{Name: "Entertainment", Keywords: []string{"netflix", "spotify", "cinema", "movie", "theatre"}},
	{Name: "Shopping", Keywords: []string{"amazon", "ebay", "target", "kmart", "big w", "david jones", "myer", "bunnings", "officeworks"}},
	{Name: "Utilities", Keywords: []string{"origin", "agl", "telstra", "optus", "electricity", "gas", "water"}},
	{Name: "Health", Keywords: []string{"pharmacy", "chemist", "medical", "doctor", "dental"}},
	{Name: "Education", Keywords: []string{"university", "school", "college", "tafe", "course"}},
	{Name: "Insurance", Keywords: []string{"insurance", "budget direct", "nrma", "racq", "racv", "aami"}},
	{Name: OtherCategory},
}

// Default builds the built-in Australian rule set. Each call returns a new value.
func Default() *RuleSet {
	return &RuleSet{
		Merchants:  defaultMerchantPatterns(),
		Categories: defaultCategoryList(),
	}
}

func defaultMerchantPatterns() []MerchantPattern {
	patterns := make([]MerchantPattern, 0, len(defaultMerchants))
	for _, m := range defaultMerchants {
		patterns = append(patterns, MerchantPattern{
			Pattern: regexp.MustCompile("(?i)" + m[0]),
			Name:    m[1],
		})
	}
	return patterns
}

func defaultCategoryList() []Category {
	categories := make([]Category, 0, len(defaultCategories))
	for _, c := range defaultCategories {
		categories = append(categories, Category{
			Name:     c.Name,
			Keywords: append([]string(nil), c.Keywords...),
		})
	}
	return categories
}
