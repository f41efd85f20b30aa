package classifier

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		wantCategory string
		wantProject  string
	}{
		{
			name:         "quickbooks bill pay",
			description:  "QUICKBOOKS PAYMENTS 88211",
			wantCategory: "QuickBooks Bill Pay",
			wantProject:  "NEEDS REVIEW",
		},
		{
			name:         "intuit marker",
			description:  "INTUIT PYMT SOLN DEPOSIT",
			wantCategory: "QuickBooks Bill Pay",
			wantProject:  "NEEDS REVIEW",
		},
		{
			name:         "zelle payment",
			description:  "ZELLE TRANSFER TO J SMITH",
			wantCategory: "Zelle Payment",
			wantProject:  "Bellevue",
		},
		{
			name:         "paper check",
			description:  "CHECK # 1042",
			wantCategory: "Subcontractor Payout",
			wantProject:  "Bellevue",
		},
		{
			name:         "plumbing subcontractor",
			description:  "ALL-PRO PLUMBING INV 99",
			wantCategory: "Plumbing",
			wantProject:  "Bellevue",
		},
		{
			name:         "electrical subcontractor",
			description:  "J&L ELECTRIC LLC",
			wantCategory: "Electrical",
			wantProject:  "Bellevue",
		},
		{
			name:         "second painter maps to same trade",
			description:  "A-1 PAINTING SERVICES",
			wantCategory: "Drywall & Paint",
			wantProject:  "Bellevue",
		},
		{
			name:         "tile subcontractor",
			description:  "Flores Tile & Stone 0422",
			wantCategory: "Flooring & Tile",
			wantProject:  "Bellevue",
		},
		{
			name:         "materials vendor",
			description:  "THE HOME DEPOT #4721",
			wantCategory: "Materials",
			wantProject:  "Bellevue",
		},
		{
			name:         "materials vendor with apostrophe",
			description:  "LOWE'S #02910",
			wantCategory: "Materials",
			wantProject:  "Bellevue",
		},
		{
			name:         "equipment rental",
			description:  "UNITED RENTALS BRANCH 221",
			wantCategory: "Equipment Rental",
			wantProject:  "Bellevue",
		},
		{
			name:         "fuel vendor",
			description:  "CHEVRON 0093821",
			wantCategory: "Fuel",
			wantProject:  "Admin",
		},
		{
			name:         "fuel station number",
			description:  "76 - CONOCOPHILLIPS",
			wantCategory: "Fuel",
			wantProject:  "Admin",
		},
		{
			name:         "unknown merchant",
			description:  "STARBUCKS STORE 12345",
			wantCategory: "Uncategorized",
			wantProject:  "Unknown",
		},
		{
			name:         "empty description",
			description:  "",
			wantCategory: "Uncategorized",
			wantProject:  "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, project := Classify(tt.description)
			if category != tt.wantCategory || project != tt.wantProject {
				t.Errorf("Classify(%q) = (%q, %q), want (%q, %q)",
					tt.description, category, project, tt.wantCategory, tt.wantProject)
			}
		})
	}
}

// Payment-method rules must shadow the subcontractor roster: a Zelle payment
// to a known sub is still a Zelle payment.
func TestClassify_PaymentMethodWinsOverRoster(t *testing.T) {
	category, project := Classify("ZELLE TO ALL-PRO PLUMBING")
	if category != "Zelle Payment" || project != "Bellevue" {
		t.Errorf("Classify() = (%q, %q), want (Zelle Payment, Bellevue)", category, project)
	}

	category, _ = Classify("QUICKBOOKS PAYMENT TO ELITE CONCRETE")
	if category != "QuickBooks Bill Pay" {
		t.Errorf("Classify() category = %q, want QuickBooks Bill Pay", category)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	category, _ := Classify("zElLe StAnDiNg OrDeR")
	if category != "Zelle Payment" {
		t.Errorf("Classify() category = %q, want Zelle Payment", category)
	}
}

// A bare "check" without the "#" marker is not a subcontractor payout.
func TestClassify_CheckRequiresHashMarker(t *testing.T) {
	category, project := Classify("PAYCHECK DEPOSIT EMPLOYER")
	if category != "Uncategorized" || project != "Unknown" {
		t.Errorf("Classify() = (%q, %q), want defaults", category, project)
	}
}

func TestRules_CopyIsIndependent(t *testing.T) {
	got := Rules()
	if len(got) == 0 {
		t.Fatal("Rules() returned an empty table")
	}

	got[0].Category = "mutated"

	if category, _ := Classify("quickbooks"); category != "QuickBooks Bill Pay" {
		t.Error("mutating the returned rule slice must not affect classification")
	}
}
