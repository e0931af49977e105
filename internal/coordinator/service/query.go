package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthanhphan/gosdk/logger"
	"golang.org/x/sync/errgroup"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
)

const (
	DefaultMaxResults      = 10
	DefaultMaxLocalResults = 30
)

type QueryOptions struct {
	MaxResults      int
	MaxLocalResults int
}

// DistributedQueryEngine runs two-round scatter/gather TF-IDF across the
// routable shards: document frequencies first, then scoring against the
// summed frequencies.
type DistributedQueryEngine struct {
	coord  *Coordinator
	shards port.ShardClient
	opts   QueryOptions
}

func NewDistributedQueryEngine(coord *Coordinator, shards port.ShardClient, opts QueryOptions) *DistributedQueryEngine {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MaxLocalResults <= 0 {
		opts.MaxLocalResults = DefaultMaxLocalResults
	}
	return &DistributedQueryEngine{coord: coord, shards: shards, opts: opts}
}

// Query tokenizes text and returns the best matches across the cluster with
// scores normalized to the global maximum.
func (q *DistributedQueryEngine) Query(ctx context.Context, text string) ([]domain.ScoredNode, error) {
	terms := domain.Tokenize(text)
	if len(terms) == 0 {
		return []domain.ScoredNode{}, nil
	}
	targets := q.targets()
	if len(targets) == 0 {
		return []domain.ScoredNode{}, nil
	}

	start := time.Now()
	results, err := q.query(ctx, terms, targets)
	metricsQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metricsQueryFailures.Inc()
		return nil, err
	}
	return results, nil
}

func (q *DistributedQueryEngine) query(ctx context.Context, terms []string, targets []port.Target) ([]domain.ScoredNode, error) {
	df, err := q.scatterDF(ctx, terms, targets)
	if err != nil {
		return nil, err
	}

	req := domain.LocalQueryRequest{Terms: terms, MaxResults: q.opts.MaxLocalResults, GlobalDF: df}
	partials := make([]domain.LocalQueryResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			res, err := q.shards.LocalQuery(gctx, t, req)
			if err != nil {
				return fmt.Errorf("local query on shard %s: %w", t.ID, err)
			}
			partials[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := MergeResults(partials, q.opts.MaxResults)
	logger.Debugw("Distributed query complete", "terms", terms, "shards", len(targets), "results", len(merged))
	return merged, nil
}

// GlobalDF sums each routable shard's local document frequencies for terms.
func (q *DistributedQueryEngine) GlobalDF(ctx context.Context, terms []string) (map[string]uint64, error) {
	if len(terms) == 0 {
		return map[string]uint64{}, nil
	}
	targets := q.targets()
	if len(targets) == 0 {
		return map[string]uint64{}, nil
	}
	return q.scatterDF(ctx, terms, targets)
}

func (q *DistributedQueryEngine) scatterDF(ctx context.Context, terms []string, targets []port.Target) (map[string]uint64, error) {
	var mu sync.Mutex
	locals := make([]map[string]uint64, 0, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			tf, err := q.shards.GetTermFrequencies(gctx, t, terms)
			if err != nil {
				return fmt.Errorf("term frequencies on shard %s: %w", t.ID, err)
			}
			mu.Lock()
			locals = append(locals, tf)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return q.coord.AggregateGlobalDF(locals...), nil
}

// targets are the shards holding routable data. Draining shards still hold
// their documents so they are queried too.
func (q *DistributedQueryEngine) targets() []port.Target {
	infos := q.coord.ParticipatingShards()
	out := make([]port.Target, 0, len(infos))
	for _, info := range infos {
		out = append(out, port.TargetOf(info))
	}
	return out
}

// MergeResults concatenates shard-local hits, divides every score by the
// global maximum, sorts and truncates to limit.
func MergeResults(partials []domain.LocalQueryResult, limit int) []domain.ScoredNode {
	var all []domain.ScoredNode
	for _, p := range partials {
		all = append(all, p.Results...)
	}
	if len(all) == 0 {
		return []domain.ScoredNode{}
	}

	maxScore := 0.0
	for _, n := range all {
		if n.Score > maxScore {
			maxScore = n.Score
		}
	}
	if maxScore > 0 {
		for i := range all {
			all[i].Score /= maxScore
		}
	}

	domain.SortScored(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}
