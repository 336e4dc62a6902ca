package quantity

import "testing"

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     string
	}{
		{"bare numbers", "2", "3", "5"},
		{"existing unit wins", "500 g", "2", "502 g"},
		{"incoming unit when existing bare", "2", "500 g", "502 g"},
		{"matching units", "1 kg", "2 kg", "3 kg"},
		{"empty existing counts as one", "", "2", "3"},
		{"empty incoming counts as one", "2", "", "3"},
		{"both empty", "", "", "2"},
		{"whitespace-only existing counts as one", "  ", "2", "3"},
		{"whitespace-only incoming counts as one", "2", " \t ", "3"},
		{"whitespace-only both", "  ", "  ", "2"},
		{"fractional sum keeps decimals", "1.5", "1", "2.5"},
		{"integral sum drops trailing zero", "1.5 l", "0.5 l", "2 l"},
		{"non-numeric existing falls back", "a pinch", "2", "a pinch + 2"},
		{"non-numeric incoming falls back", "2", "some", "2 + some"},
		{"both non-numeric fall back", "a few", "some more", "a few + some more"},
		{"multi-word unit", "2 large cans", "1", "3 large cans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.existing, tt.incoming)
			if got != tt.want {
				t.Errorf("Merge(%q, %q) = %q, want %q", tt.existing, tt.incoming, got, tt.want)
			}
		})
	}
}
