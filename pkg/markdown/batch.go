package markdown

import (
	"context"

	"github.com/adfmd/adfmd/internal/derrors"
	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/sourcegraph/conc/pool"
)

// maxBatchWorkers bounds the fan-out of the batch helpers. Conversions are
// CPU-bound and independent, so a small fixed pool is enough.
const maxBatchWorkers = 8

// FromADFBatch renders many documents concurrently. Results keep the input
// order; the first structural error cancels the remaining work.
func FromADFBatch(ctx context.Context, docs []*adf.Document) (_ []string, err error) {
	defer derrors.Wrap(&err)

	results := make([]string, len(docs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxBatchWorkers).WithCancelOnError()

	for i, doc := range docs {
		p.Go(func(ctx context.Context) error {
			md, err := FromADF(doc)
			if err != nil {
				return err
			}
			results[i] = md
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ToADFBatch parses many markdown sources concurrently, keeping input order.
func ToADFBatch(ctx context.Context, sources []string) (_ []*adf.Document, err error) {
	defer derrors.Wrap(&err)

	results := make([]*adf.Document, len(sources))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxBatchWorkers)

	for i, src := range sources {
		p.Go(func(ctx context.Context) error {
			results[i] = ToADF(src)
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
