// Package match ranks knowledge-store entities as duplicate candidates for
// incoming bibliographic records.
package match

import (
	"sort"

	"github.com/alberto/anybib/internal/store"
)

// Tier is a coarse confidence bucket derived from a similarity score.
type Tier string

const (
	TierExact  Tier = "exact"
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierFor maps a similarity score to its confidence tier.
func TierFor(sim float64) Tier {
	switch {
	case sim >= 0.99:
		return TierExact
	case sim >= 0.90:
		return TierHigh
	case sim >= 0.80:
		return TierMedium
	}
	return TierLow
}

// Reason vocabulary for candidate matches.
const (
	ReasonExactIdentifier = "exact identifier match"
	ReasonExactExternalID = "exact external-id match"
	ReasonFullName        = "full name match"
	ReasonNameAbbrev      = "last name match, possible first name abbreviation"
	ReasonLastNameOnly    = "last name match only"
	ReasonSimilarLastName = "similar last name"
	ReasonExactName       = "exact name match"
	ReasonKnownAbbrev     = "known abbreviation match"
	ReasonVerySimilar     = "very similar name"
	ReasonSimilarName     = "similar name"
)

// Via records which comparison path scored a candidate that lacked
// structured name fields.
type Via string

const (
	ViaStructured Via = "structured"
	ViaDisplay    Via = "display"
	ViaParsed     Via = "parsed"
)

// Candidate is one ranked duplicate candidate. Candidates are created fresh
// per query and never persisted.
type Candidate struct {
	Entity     store.Entity `json:"entity"`
	Similarity float64      `json:"similarity"`
	Tier       Tier         `json:"tier"`
	Reason     string       `json:"reason"`
	Via        Via          `json:"via,omitempty"`
}

// Result is the outcome of one duplicate lookup. Degraded is set when the
// store failed mid-enumeration and the candidate list may be partial; the
// caller is responsible for surfacing the warning.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Degraded   bool        `json:"degraded,omitempty"`
}

// newCandidate builds a candidate with its tier derived from the score.
func newCandidate(ent store.Entity, sim float64, reason string, via Via) Candidate {
	return Candidate{Entity: ent, Similarity: sim, Tier: TierFor(sim), Reason: reason, Via: via}
}

// sortCandidates orders candidates by similarity descending, preserving
// original candidate order on ties.
func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Similarity > cands[j].Similarity
	})
}
