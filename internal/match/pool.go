package match

import (
	"context"

	"github.com/alberto/anybib/internal/store"
)

// pool is a bounded iterator over a kind-scoped store enumeration. It keeps
// requesting fixed-size pages until the store signals exhaustion or the
// safety cap is reached, so a misbehaving collaborator cannot stall a
// lookup indefinitely.
type pool struct {
	store    store.Store
	kind     store.EntityKind
	pageSize int
	limit    int
}

// collect drains the pool. A store failure mid-loop terminates enumeration
// and reports degraded=true with whatever was gathered so far; matching
// degrades to partial results rather than aborting. The returned error is
// only non-nil for context cancellation.
func (p *pool) collect(ctx context.Context) (items []store.Entity, degraded bool, err error) {
	for page := 0; len(items) < p.limit; page++ {
		if err := ctx.Err(); err != nil {
			return items, false, err
		}

		res, err := p.store.QueryByKind(ctx, p.kind, page, p.pageSize)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return items, false, ctxErr
			}
			return items, true, nil
		}

		items = append(items, res.Items...)
		if !res.HasMore || len(res.Items) == 0 {
			break
		}
	}

	if len(items) > p.limit {
		items = items[:p.limit]
	}
	return items, false, nil
}
