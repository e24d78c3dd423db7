package bibtex

import (
	"strconv"
	"testing"
	"time"

	"github.com/alberto/anybib/internal/reference"
)

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name string
		rec  reference.Record
		want string
	}{
		{
			name: "structured author",
			rec: reference.Record{
				Title:   "Ultrastrong coupling between light and matter",
				Authors: []reference.Author{{Given: "Salvatore", Family: "Savasta"}},
				Year:    2019,
			},
			want: "Savasta2019Ultrastrong",
		},
		{
			name: "accented surname and leading title article kept",
			rec: reference.Record{
				Title:   "The Lowe-Holder Effect",
				Authors: []reference.Author{{FullName: "X", Family: "Löwe"}},
				Year:    2024,
			},
			want: "Lowe2024The",
		},
		{
			name: "raw full name uses last token",
			rec: reference.Record{
				Title:   "Molecular Evolution",
				Authors: []reference.Author{{FullName: "Motoo Kimura"}},
				Year:    1983,
			},
			want: "Kimura1983Molecular",
		},
		{
			name: "no authors",
			rec: reference.Record{
				Title: "Editorial Notes",
				Year:  2020,
			},
			want: "Unknown2020Editorial",
		},
		{
			name: "no title",
			rec: reference.Record{
				Authors: []reference.Author{{Family: "Chen"}},
				Year:    2018,
			},
			want: "Chen2018Untitled",
		},
		{
			name: "multi-token surname drops leading article",
			rec: reference.Record{
				Title:   "Gravitas",
				Authors: []reference.Author{{Family: "The Weeknd"}},
				Year:    2021,
			},
			want: "Weeknd2021Gravitas",
		},
		{
			name: "single-token article surname kept whole",
			rec: reference.Record{
				Title:   "Gravitas",
				Authors: []reference.Author{{Family: "The"}},
				Year:    2021,
			},
			want: "The2021Gravitas",
		},
		{
			name: "punctuation stripped from title word",
			rec: reference.Record{
				Title:   "Quantum, classical, and hybrid",
				Authors: []reference.Author{{Family: "O'Brien"}},
				Year:    2022,
			},
			want: "OBrien2022Quantum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(&tt.rec); got != tt.want {
				t.Errorf("CiteKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCiteKeyDeterministic(t *testing.T) {
	rec := reference.Record{
		Title:   "The Lowe-Holder Effect",
		Authors: []reference.Author{{FullName: "X", Family: "Löwe"}},
		Year:    2024,
	}
	first := CiteKey(&rec)
	for i := 0; i < 10; i++ {
		if got := CiteKey(&rec); got != first {
			t.Fatalf("CiteKey not deterministic: %q then %q", first, got)
		}
	}
}

func TestCiteKeyMissingYearUsesCurrent(t *testing.T) {
	rec := reference.Record{
		Title:   "Preprint Musings",
		Authors: []reference.Author{{Family: "Vidal"}},
	}
	want := "Vidal" + strconv.Itoa(time.Now().Year()) + "Preprint"
	if got := CiteKey(&rec); got != want {
		t.Errorf("CiteKey() = %q, want %q", got, want)
	}
}
