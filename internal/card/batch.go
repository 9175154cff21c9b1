package card

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type BatchItem struct {
	Key    string
	Fields map[string]string
}

type BatchResult struct {
	Key    string
	Result *Result
	Err    error
}

// RenderBatch renders every item with at most limit renders in flight.
// Each card gets its own surface; one failure does not stop the others.
// Results keep the order of items.
func (r *Renderer) RenderBatch(ctx context.Context, l Layout, items []BatchItem, limit int) []BatchResult {
	results := make([]BatchResult, len(items))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		results[i].Key = item.Key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = r.Render(ctx, l, item.Fields)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
