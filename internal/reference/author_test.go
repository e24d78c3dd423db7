package reference

import "testing"

func TestParseFullName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		given  string
		family string
	}{
		{"empty", "", "", ""},
		{"single token", "Plato", "", "Plato"},
		{"two tokens", "John Smith", "John", "Smith"},
		{"simple three tokens", "John Michael Smith", "John Michael", "Smith"},
		{"van particle", "Ludwig van Beethoven", "Ludwig", "van Beethoven"},
		{"stacked particles", "Johannes van der Waals", "Johannes", "van der Waals"},
		{"de la compound", "Maria de la Cruz", "Maria", "de la Cruz"},
		{"ibn particle", "Abu Ali ibn Sina", "Abu Ali", "ibn Sina"},
		{"middle initial pulled in", "John F. Kennedy", "John", "F. Kennedy"},
		{"uppercase particle", "Ludwig Van Beethoven", "Ludwig", "Van Beethoven"},
		{"no particles", "Wolfgang Amadeus Mozart", "Wolfgang Amadeus", "Mozart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			given, family := ParseFullName(tt.input)
			if given != tt.given || family != tt.family {
				t.Errorf("ParseFullName(%q) = (%q, %q), want (%q, %q)",
					tt.input, given, family, tt.given, tt.family)
			}
		})
	}
}

func TestAuthorFamilyName(t *testing.T) {
	a := Author{FullName: "Ludwig van Beethoven"}
	if got := a.FamilyName(); got != "van Beethoven" {
		t.Errorf("FamilyName() = %q, want %q", got, "van Beethoven")
	}

	a = Author{FullName: "whoever", Family: "Smith"}
	if got := a.FamilyName(); got != "Smith" {
		t.Errorf("FamilyName() = %q, want Smith", got)
	}
}

func TestAuthorDisplayName(t *testing.T) {
	tests := []struct {
		author Author
		want   string
	}{
		{Author{Family: "Smith", Given: "John"}, "Smith, John"},
		{Author{Family: "Smith"}, "Smith"},
		{Author{FullName: "John Smith"}, "John Smith"},
	}
	for _, tt := range tests {
		if got := tt.author.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
