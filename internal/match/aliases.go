package match

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alberto/anybib/internal/text"
)

// AliasTable maps canonical journal names to their known abbreviated forms.
// Lookups are normalization-aware: "Phys. Rev. Lett." and "phys rev lett"
// hit the same entry.
type AliasTable struct {
	// entries holds, per canonical name, the normalized set of all forms
	// (canonical plus aliases).
	entries []map[string]bool
}

// NewAliasTable creates an empty table.
func NewAliasTable() *AliasTable {
	return &AliasTable{}
}

// Add registers a canonical name with its aliases as one entry.
func (t *AliasTable) Add(canonical string, aliases ...string) {
	forms := make(map[string]bool, len(aliases)+1)
	if n := text.Normalize(canonical); n != "" {
		forms[n] = true
	}
	for _, a := range aliases {
		if n := text.Normalize(a); n != "" {
			forms[n] = true
		}
	}
	if len(forms) > 0 {
		t.entries = append(t.entries, forms)
	}
}

// Match reports whether a and b are known forms of the same journal:
// canonical and alias in either direction, or two aliases from the same
// entry. Identical normalized names are not alias matches; those are exact
// matches and handled upstream.
func (t *AliasTable) Match(a, b string) bool {
	na, nb := text.Normalize(a), text.Normalize(b)
	if na == "" || nb == "" || na == nb {
		return false
	}
	for _, forms := range t.entries {
		if forms[na] && forms[nb] {
			return true
		}
	}
	return false
}

// LoadFile merges alias entries from a YAML resource with the schema
//
//	canonical name:
//	  - alias
//	  - alias
//
// into the table. Entries add to, and never replace, what is already loaded.
func (t *AliasTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading alias file: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing alias file: %w", err)
	}

	for canonical, aliases := range raw {
		t.Add(canonical, aliases...)
	}
	return nil
}

// DefaultAliases returns the table seeded with high-frequency physics,
// chemistry, and biology journal abbreviations.
func DefaultAliases() *AliasTable {
	t := NewAliasTable()

	// Physics
	t.Add("Physical Review Letters", "Phys. Rev. Lett.", "PRL")
	t.Add("Physical Review A", "Phys. Rev. A", "PRA")
	t.Add("Physical Review B", "Phys. Rev. B", "PRB")
	t.Add("Physical Review D", "Phys. Rev. D", "PRD")
	t.Add("Physical Review E", "Phys. Rev. E", "PRE")
	t.Add("Physical Review X", "Phys. Rev. X", "PRX")
	t.Add("Reviews of Modern Physics", "Rev. Mod. Phys.", "RMP")
	t.Add("Applied Physics Letters", "Appl. Phys. Lett.", "APL")
	t.Add("New Journal of Physics", "New J. Phys.", "NJP")
	t.Add("Nature Physics", "Nat. Phys.", "Nat Phys")
	t.Add("Nature Photonics", "Nat. Photonics", "Nat Photon")
	t.Add("Journal of Physics A", "J. Phys. A")
	t.Add("Journal of Applied Physics", "J. Appl. Phys.")

	// Chemistry
	t.Add("Journal of the American Chemical Society", "J. Am. Chem. Soc.", "JACS")
	t.Add("Journal of Chemical Physics", "J. Chem. Phys.", "JCP")
	t.Add("Journal of Physical Chemistry Letters", "J. Phys. Chem. Lett.", "JPCL")
	t.Add("Angewandte Chemie International Edition", "Angew. Chem. Int. Ed.")
	t.Add("Chemical Reviews", "Chem. Rev.")
	t.Add("Chemical Science", "Chem. Sci.")

	// Biology
	t.Add("Proceedings of the National Academy of Sciences", "Proc. Natl. Acad. Sci.",
		"Proc Natl Acad Sci USA", "PNAS")
	t.Add("Nucleic Acids Research", "Nucleic Acids Res.", "NAR")
	t.Add("Journal of Molecular Biology", "J. Mol. Biol.", "JMB")
	t.Add("Molecular Biology and Evolution", "Mol. Biol. Evol.", "MBE")
	t.Add("PLOS Computational Biology", "PLoS Comput. Biol.")
	t.Add("Bioinformatics", "Bioinform.")

	// General
	t.Add("Nature Communications", "Nat. Commun.", "Nat Commun")
	t.Add("Science Advances", "Sci. Adv.")
	t.Add("Scientific Reports", "Sci. Rep.")

	return t
}
