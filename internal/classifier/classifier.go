// Package classifier assigns a category and project tag to bank transaction
// descriptions using an ordered, first-match-wins rule table. The table
// encodes business rules for a single remodeling client; it is data, not
// control flow, so individual rules can be tested and later externalized.
package classifier

import "strings"

// Rule maps description keywords to a category and project. A rule matches
// when any of its keywords is contained in the lower-cased description.
type Rule struct {
	Keywords []string
	Category string
	Project  string
}

// Defaults applied when no rule matches.
const (
	DefaultCategory = "Uncategorized"
	DefaultProject  = "Unknown"
)

// rules is evaluated top to bottom. Payment-method markers come first so that
// a Zelle transfer to a known subcontractor is tagged as a Zelle payment and
// not as that subcontractor's trade.
var rules = []Rule{
	{Keywords: []string{"quickbooks", "intuit"}, Category: "QuickBooks Bill Pay", Project: "NEEDS REVIEW"},
	{Keywords: []string{"zelle"}, Category: "Zelle Payment", Project: "Bellevue"},
	{Keywords: []string{"check #"}, Category: "Subcontractor Payout", Project: "Bellevue"},

	// Subcontractor roster: a keyword from the sub's name maps to their trade.
	// Keywords are disjoint, so relative order within this block is irrelevant.
	{Keywords: []string{"all-pro plumbing"}, Category: "Plumbing", Project: "Bellevue"},
	{Keywords: []string{"j&l electric"}, Category: "Electrical", Project: "Bellevue"},
	{Keywords: []string{"sal's drywall"}, Category: "Drywall & Paint", Project: "Bellevue"},
	{Keywords: []string{"creative landscape"}, Category: "Landscaping", Project: "Bellevue"},
	{Keywords: []string{"best quality roofing"}, Category: "Roofing", Project: "Bellevue"},
	{Keywords: []string{"a-1 painting"}, Category: "Drywall & Paint", Project: "Bellevue"},
	{Keywords: []string{"precision framing"}, Category: "Framing", Project: "Bellevue"},
	{Keywords: []string{"elite concrete"}, Category: "Concrete & Foundation", Project: "Bellevue"},
	{Keywords: []string{"custom cabinetry"}, Category: "Cabinets & Millwork", Project: "Bellevue"},
	{Keywords: []string{"total home insulation"}, Category: "Insulation", Project: "Bellevue"},
	{Keywords: []string{"flores tile & stone"}, Category: "Flooring & Tile", Project: "Bellevue"},
	{Keywords: []string{"window world"}, Category: "Windows & Doors", Project: "Bellevue"},

	// Known vendors.
	{Keywords: []string{"home depot", "lowe's", "sherwin-williams"}, Category: "Materials", Project: "Bellevue"},
	{Keywords: []string{"sunbelt", "united rentals"}, Category: "Equipment Rental", Project: "Bellevue"},
	{Keywords: []string{"chevron", "shell", "76"}, Category: "Fuel", Project: "Admin"},
}

// Classify assigns a category and project to a transaction description.
// Matching is case-insensitive substring containment; a missing description
// is treated as empty and falls through to the defaults. Classify is pure:
// it never fails and consults no external state.
func Classify(description string) (category, project string) {
	name := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(name, kw) {
				return r.Category, r.Project
			}
		}
	}
	return DefaultCategory, DefaultProject
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}
