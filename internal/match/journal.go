package match

import (
	"context"

	"github.com/alberto/anybib/internal/store"
	"github.com/alberto/anybib/internal/text"
)

// Journals ranks stored journals as duplicate candidates for a venue name.
// Comparison runs on journal-normalized names (lowercased, punctuation
// collapsed, accents stripped). An exact normalized match wins outright;
// otherwise a known abbreviation pair is forced to similarity 0.95.
// Abbreviation confidence is a floor, not a blend with the edit-distance
// score, which for pairs like "Phys. Rev. Lett." vs "Physical Review
// Letters" would be far too low.
func (e *Engine) Journals(ctx context.Context, name string) (Result, error) {
	query := text.Normalize(name)
	if query == "" {
		return Result{}, nil
	}

	p := pool{store: e.store, kind: store.KindJournal, pageSize: e.pageSize, limit: e.maxPool}
	candidates, degraded, err := p.collect(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{Degraded: degraded}
	var scored []Candidate
	for _, ent := range candidates {
		stored := text.Normalize(ent.Name)
		if stored == "" {
			continue
		}

		// Admission requires the configured threshold or an alias hit;
		// the ≥0.9 band only picks the reason, never admission.
		sim := text.Similarity(query, stored)
		switch {
		case sim == 1.0:
			scored = append(scored, newCandidate(ent, 1.0, ReasonExactName, ""))
		case e.aliases.Match(name, ent.Name):
			scored = append(scored, newCandidate(ent, 0.95, ReasonKnownAbbrev, ""))
		case sim >= e.threshold && sim >= 0.9:
			scored = append(scored, newCandidate(ent, sim, ReasonVerySimilar, ""))
		case sim >= e.threshold:
			scored = append(scored, newCandidate(ent, sim, ReasonSimilarName, ""))
		}
	}

	sortCandidates(scored)
	res.Candidates = scored
	return res, nil
}
