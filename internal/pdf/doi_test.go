package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain",
			text: "See https://doi.org/10.1103/PhysRevLett.126.153603 for details",
			want: "10.1103/PhysRevLett.126.153603",
		},
		{
			name: "trailing period trimmed",
			text: "published as 10.1038/s42254-018-0006-2.",
			want: "10.1038/s42254-018-0006-2",
		},
		{
			name: "first of several wins",
			text: "DOI: 10.1073/pnas.1234567890 cites 10.1093/nar/gkab123",
			want: "10.1073/pnas.1234567890",
		},
		{
			name: "no identifier",
			text: "This page intentionally left blank.",
			want: "",
		},
		{
			name: "too short rejected",
			text: "version 10.4/a of the format",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractDOIMissingFile(t *testing.T) {
	if _, err := ExtractDOI("/nonexistent/paper.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
