package match

import (
	"context"
	"strings"

	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/store"
	"github.com/alberto/anybib/internal/text"
)

// Persons ranks stored persons as duplicate candidates for an author.
// familyName is required; givenName and orcid refine the match. Candidates
// with an exactly matching external id are pinned first at similarity 1.0
// and excluded from fuzzy scoring. Everything else is admitted at the fixed
// PersonFloor, independent of the configured threshold.
func (e *Engine) Persons(ctx context.Context, familyName, givenName, orcid string) (Result, error) {
	var res Result
	pinned := map[string]bool{}

	if orcid != "" {
		hits, err := e.store.QueryByField(ctx, store.KindPerson, e.keys.ORCID, orcid)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			if !store.IsNotFound(err) {
				res.Degraded = true
			}
		}
		for _, ent := range hits {
			res.Candidates = append(res.Candidates, newCandidate(ent, 1.0, ReasonExactExternalID, ViaStructured))
			pinned[ent.ID] = true
		}
	}

	p := pool{store: e.store, kind: store.KindPerson, pageSize: e.pageSize, limit: e.maxPool}
	candidates, degraded, err := p.collect(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Degraded = res.Degraded || degraded

	var scored []Candidate
	for _, ent := range candidates {
		if pinned[ent.ID] {
			continue
		}
		sim, reason, via, ok := e.scorePerson(familyName, givenName, ent)
		if !ok || sim < PersonFloor {
			continue
		}
		scored = append(scored, newCandidate(ent, sim, reason, via))
	}

	sortCandidates(scored)
	res.Candidates = append(res.Candidates, scored...)
	return res, nil
}

// scorePerson scores a single stored person against the query name. It
// prefers structured given/family fields; entities exposing only a display
// name are compared directly and through the name parser, keeping whichever
// path scores higher.
func (e *Engine) scorePerson(familyName, givenName string, ent store.Entity) (float64, string, Via, bool) {
	family := ent.TextValue(e.keys.Family)
	given := ent.TextValue(e.keys.Given)

	if family != "" {
		sim, reason := compareNames(familyName, givenName, family, given)
		return sim, reason, ViaStructured, reason != ""
	}

	if ent.Name == "" {
		return 0, "", "", false
	}

	// Direct comparison of the query's full name against the display name.
	full := strings.TrimSpace(givenName + " " + familyName)
	directSim := text.Similarity(full, ent.Name)
	directReason := ReasonSimilarName
	if directSim >= 0.95 {
		directReason = ReasonFullName
	}

	// Parse the display name and re-run the structured comparison.
	parsedGiven, parsedFamily := reference.ParseFullName(ent.Name)
	parsedSim, parsedReason := compareNames(familyName, givenName, parsedFamily, parsedGiven)

	if parsedReason != "" && parsedSim > directSim {
		return parsedSim, parsedReason, ViaParsed, true
	}
	return directSim, directReason, ViaDisplay, directSim > 0
}

// compareNames implements the structured person comparison. An empty reason
// means the family names are too far apart to consider.
func compareNames(qFamily, qGiven, cFamily, cGiven string) (float64, string) {
	famSim := text.Similarity(qFamily, cFamily)

	switch {
	case famSim >= 0.95:
		if qGiven != "" && cGiven != "" {
			givenSim := text.Similarity(qGiven, cGiven)
			switch {
			case givenSim >= 0.95:
				return (famSim + givenSim) / 2, ReasonFullName
			case text.IsAbbreviation(qGiven, cGiven) || text.IsAbbreviation(cGiven, qGiven):
				// Abbreviation confidence is a fixed value, not a blend.
				return 0.85, ReasonNameAbbrev
			case givenSim >= 0.5:
				return (famSim + givenSim) / 2, ReasonNameAbbrev
			default:
				// Both given names present but unrelated.
				return famSim * 0.7, ReasonLastNameOnly
			}
		}
		// A given name is missing on one side; smaller discount.
		return famSim * 0.9, ReasonLastNameOnly

	case famSim >= 0.8:
		return famSim * 0.7, ReasonSimilarLastName
	}

	return 0, ""
}
