package pipeline

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProcessBatch runs up to the configured concurrency of documents at once.
func (s *service) ProcessBatch(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{RunID: uuid.NewString(), Source: doc.Name}.failed(err)
				s.metrics.ObserveFailure(results[i].ErrorCode)
				return err
			}
			results[i] = s.processDocument(gctx, doc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn("Batch stopped early", map[string]interface{}{
			"documents": len(docs),
			"error":     err.Error(),
		})
		return results, err
	}
	return results, nil
}

func (s *service) processDocument(ctx context.Context, doc Document) Result {
	var r Result
	if doc.Data != nil {
		r = s.ProcessPDF(ctx, doc.Data)
	} else {
		r = s.ProcessText(ctx, doc.Text)
	}
	r.Source = doc.Name
	return r
}
