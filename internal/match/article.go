package match

import (
	"context"

	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/store"
)

// Articles finds stored articles whose persistent identifier exactly equals
// the lowercased input. Articles never fuzzy-match on identifier: a single
// character of difference yields no candidates. A miss is an empty result,
// never an error.
func (e *Engine) Articles(ctx context.Context, identifier string) (Result, error) {
	id := reference.NormalizeIdentifier(identifier)
	if id == "" {
		return Result{}, nil
	}

	hits, err := e.store.QueryByField(ctx, store.KindArticle, e.keys.Identifier, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		if store.IsNotFound(err) {
			return Result{}, nil
		}
		return Result{Degraded: true}, nil
	}

	res := Result{}
	for _, ent := range hits {
		res.Candidates = append(res.Candidates, newCandidate(ent, 1.0, ReasonExactIdentifier, ViaStructured))
	}
	return res, nil
}
