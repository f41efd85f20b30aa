package sheets

import "testing"

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{6, "F"},
		{26, "Z"},
	}

	for _, tt := range tests {
		if got := columnLetter(tt.n); got != tt.want {
			t.Errorf("columnLetter(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestToCells(t *testing.T) {
	got := toCells([]string{"transaction_id", "date"})
	if len(got) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(got))
	}
	if got[0] != "transaction_id" || got[1] != "date" {
		t.Errorf("toCells() = %v", got)
	}
}
