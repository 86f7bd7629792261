package postings

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many postings are fetched in parallel.
const DefaultConcurrency = 4

// Store persists extracted postings. Implemented by the database layer.
type Store interface {
	SaveJobPosting(ctx context.Context, p *Posting) error
}

// Ingester fetches, extracts, and persists batches of posting URLs.
type Ingester struct {
	fetcher *Fetcher
	store   Store
	log     zerolog.Logger
}

// NewIngester returns an Ingester writing through the given store.
func NewIngester(fetcher *Fetcher, store Store, log zerolog.Logger) *Ingester {
	return &Ingester{fetcher: fetcher, store: store, log: log}
}

// IngestOne fetches and persists a single posting URL.
func (in *Ingester) IngestOne(ctx context.Context, url string) (*Posting, error) {
	result, err := in.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	posting, err := Extract(result)
	if err != nil {
		return nil, err
	}
	if in.store != nil {
		if err := in.store.SaveJobPosting(ctx, posting); err != nil {
			return nil, err
		}
	}
	return posting, nil
}

// Ingest processes a batch of URLs with bounded concurrency. Failed URLs are
// logged and skipped so one bad posting does not abort the batch.
func (in *Ingester) Ingest(ctx context.Context, urls []string) []*Posting {
	var (
		mu       sync.Mutex
		postings []*Posting
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for _, url := range urls {
		url := url
		g.Go(func() error {
			posting, err := in.IngestOne(ctx, url)
			if err != nil {
				in.log.Warn().Err(err).Str("url", url).Msg("posting ingest failed")
				return nil
			}
			mu.Lock()
			postings = append(postings, posting)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors, only context cancellation stops early.
	_ = g.Wait()

	return postings
}
