// Package bench measures an in-process cluster: document ingestion, tick
// execution and distributed queries over embedded shards.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/outbound/inproc"
	coordsvc "github.com/anthanhphan/phago-distributed/internal/coordinator/service"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/engine"
	shardsvc "github.com/anthanhphan/phago-distributed/internal/shard/service"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type Config struct {
	Shards        int
	Documents     int
	Ticks         int
	Queries       int
	SampleQueries []string
	ResolveGhosts bool
	Workers       int
}

func DefaultConfig() Config {
	return Config{
		Shards:        3,
		Documents:     100,
		Ticks:         20,
		Queries:       50,
		SampleQueries: []string{"cell membrane", "protein transport", "molecular biology"},
		Workers:       8,
	}
}

func (c Config) validate() error {
	if c.Shards <= 0 {
		return fmt.Errorf("shards must be positive, got %d", c.Shards)
	}
	if c.Documents < 0 || c.Ticks < 0 || c.Queries < 0 {
		return fmt.Errorf("documents, ticks and queries must not be negative")
	}
	if c.Queries > 0 && len(c.SampleQueries) == 0 {
		return fmt.Errorf("queries requested without sample queries")
	}
	return nil
}

// Latency summarizes per-operation durations.
type Latency struct {
	Min  time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration
	Mean time.Duration
}

func summarize(durs []time.Duration) Latency {
	if len(durs) == 0 {
		return Latency{}
	}
	cp := make([]time.Duration, len(durs))
	copy(cp, durs)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	var sum time.Duration
	for _, d := range cp {
		sum += d
	}
	at := func(q float64) time.Duration { return cp[int(float64(len(cp)-1)*q)] }
	return Latency{
		Min:  cp[0],
		P50:  at(0.50),
		P95:  at(0.95),
		P99:  at(0.99),
		Max:  cp[len(cp)-1],
		Mean: time.Duration(int64(sum) / int64(len(cp))),
	}
}

type Results struct {
	Shards    int
	Documents int
	Ticks     int
	Queries   int

	SetupTime  time.Duration
	IngestTime time.Duration
	TickTime   time.Duration
	QueryTime  time.Duration
	TotalTime  time.Duration

	DocsPerSecond    float64
	TicksPerSecond   float64
	QueriesPerSecond float64

	IngestLatency Latency
	TickLatency   Latency
	QueryLatency  Latency

	TotalNodes    int
	TotalEdges    int
	EdgesResolved int
}

// Run builds a cluster of cfg.Shards embedded shards, ingests generated
// documents, runs the ticks and then the queries, timing each stage.
func Run(ctx context.Context, cfg Config) (Results, error) {
	if err := cfg.validate(); err != nil {
		return Results{}, err
	}
	res := Results{Shards: cfg.Shards, Documents: cfg.Documents, Ticks: cfg.Ticks}
	totalStart := time.Now()

	setupStart := time.Now()
	svc, colonies := newCluster(cfg)
	defer func() { _ = svc.Close() }()
	res.SetupTime = time.Since(setupStart)

	docs := GenerateDocuments(cfg.Documents)
	lat := make([]time.Duration, 0, len(docs))
	ingestStart := time.Now()
	for _, doc := range docs {
		start := time.Now()
		if _, _, err := svc.IngestDocument(ctx, doc); err != nil {
			return res, fmt.Errorf("ingest %s: %w", doc.ID, err)
		}
		lat = append(lat, time.Since(start))
	}
	res.IngestTime = time.Since(ingestStart)
	res.IngestLatency = summarize(lat)

	lat = make([]time.Duration, 0, cfg.Ticks)
	tickStart := time.Now()
	for i := 0; i < cfg.Ticks; i++ {
		start := time.Now()
		report, err := svc.Runner().RunTick(ctx)
		if err != nil {
			return res, fmt.Errorf("tick %d: %w", i, err)
		}
		lat = append(lat, time.Since(start))
		res.EdgesResolved += report.EdgesResolved
	}
	res.TickTime = time.Since(tickStart)
	res.TickLatency = summarize(lat)

	lat = make([]time.Duration, 0, cfg.Queries*len(cfg.SampleQueries))
	queryStart := time.Now()
	for i := 0; i < cfg.Queries; i++ {
		for _, q := range cfg.SampleQueries {
			start := time.Now()
			if _, err := svc.Query(ctx, q); err != nil {
				return res, fmt.Errorf("query %q: %w", q, err)
			}
			lat = append(lat, time.Since(start))
		}
	}
	res.Queries = len(lat)
	res.QueryTime = time.Since(queryStart)
	res.QueryLatency = summarize(lat)

	for _, colony := range colonies {
		stats := colony.Stats()
		res.TotalNodes += stats.Nodes
		res.TotalEdges += stats.Edges
	}
	res.TotalTime = time.Since(totalStart)

	res.DocsPerSecond = perSecond(res.Documents, res.IngestTime)
	res.TicksPerSecond = perSecond(res.Ticks, res.TickTime)
	res.QueriesPerSecond = perSecond(res.Queries, res.QueryTime)
	return res, nil
}

// Scaling runs the same workload once per shard count.
func Scaling(ctx context.Context, base Config, shardCounts []int) ([]Results, error) {
	out := make([]Results, 0, len(shardCounts))
	for _, n := range shardCounts {
		cfg := base
		cfg.Shards = n
		r, err := Run(ctx, cfg)
		if err != nil {
			return out, fmt.Errorf("%d shards: %w", n, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func perSecond(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

func newCluster(cfg Config) (*coordsvc.CoordinatorServiceImpl, []*shardsvc.Colony) {
	coord := coordsvc.NewCoordinator(coordsvc.CoordinatorOptions{
		VirtualNodesPerShard: shard.DefaultVNodesPerShard,
		HeartbeatTimeout:     time.Hour,
	})
	ids := make([]shard.ID, 0, cfg.Shards)
	for i := 0; i < cfg.Shards; i++ {
		ids = append(ids, coord.RegisterShard(domain.ShardInfo{Address: fmt.Sprintf("bench-%d", i)}))
	}

	adapter := inproc.NewAdapter(nil)
	colonies := make([]*shardsvc.Colony, 0, len(ids))
	for _, id := range ids {
		colony := shardsvc.NewColony(id, engine.NewMemoryGraph(engine.DefaultConfig()),
			shard.NewRing(shard.DefaultVNodesPerShard, ids...), shardsvc.DefaultColonyConfig())
		shardsvc.ApplyTopology(colony, coord.AllShards())
		adapter.Add(shardsvc.NewShardService(colony, nil, nil, fmt.Sprintf("bench-%d", id)))
		colonies = append(colonies, colony)
	}

	svc := coordsvc.NewCoordinatorService(coord, adapter, nil, coordsvc.ServiceOptions{
		Runner: coordsvc.RunnerOptions{ResolveGhosts: cfg.ResolveGhosts, Workers: cfg.Workers},
	})
	return svc, colonies
}

var topics = []struct{ title, content string }{
	{"Cell Biology", "cell membrane protein transport signaling pathway organelle cytoplasm"},
	{"Molecular Biology", "DNA RNA transcription translation gene expression nucleotide sequence"},
	{"Biochemistry", "enzyme substrate reaction kinetics metabolism catalysis activation"},
	{"Genetics", "chromosome gene mutation inheritance phenotype genotype allele"},
	{"Neuroscience", "neuron synapse action potential neurotransmitter receptor axon dendrite"},
	{"Immunology", "antibody antigen immune response lymphocyte cytokine inflammation"},
	{"Microbiology", "bacteria virus pathogen infection microbiome antimicrobial resistance"},
	{"Ecology", "ecosystem biodiversity species population habitat conservation environment"},
}

// GenerateDocuments cycles through a fixed set of scientific topics.
func GenerateDocuments(n int) []domain.Document {
	docs := make([]domain.Document, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		docs = append(docs, domain.Document{
			ID:    domain.DocumentIDFromSeed(uint64(i)),
			Title: fmt.Sprintf("%s Document %d", t.title, i),
			Content: fmt.Sprintf("%s - variation %d with unique content about scientific concepts and research findings",
				t.content, i),
			Position: domain.Position{X: float64(i % 100), Y: float64(i / 100)},
		})
	}
	return docs
}

func ms(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds()*1000, 'f', 3, 64)
}

var csvHeader = []string{
	"shards", "documents", "ticks", "queries",
	"docs_per_sec", "ticks_per_sec", "queries_per_sec",
	"tick_p50_ms", "tick_p99_ms", "query_p50_ms", "query_p99_ms",
	"nodes", "edges", "total_time_ms",
}

func (r Results) csvRow() []string {
	return []string{
		strconv.Itoa(r.Shards),
		strconv.Itoa(r.Documents),
		strconv.Itoa(r.Ticks),
		strconv.Itoa(r.Queries),
		strconv.FormatFloat(r.DocsPerSecond, 'f', 2, 64),
		strconv.FormatFloat(r.TicksPerSecond, 'f', 2, 64),
		strconv.FormatFloat(r.QueriesPerSecond, 'f', 2, 64),
		ms(r.TickLatency.P50),
		ms(r.TickLatency.P99),
		ms(r.QueryLatency.P50),
		ms(r.QueryLatency.P99),
		strconv.Itoa(r.TotalNodes),
		strconv.Itoa(r.TotalEdges),
		strconv.FormatInt(r.TotalTime.Milliseconds(), 10),
	}
}

// WriteCSV writes a header followed by one row per result.
func WriteCSV(w io.Writer, results ...Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(r.csvRow()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary prints a human-readable report of one run.
func (r Results) WriteSummary(w io.Writer) error {
	lines := []string{
		"=== Distributed Colony Benchmark ===",
		fmt.Sprintf("Shards: %d, Documents: %d, Ticks: %d, Queries: %d", r.Shards, r.Documents, r.Ticks, r.Queries),
		"",
		fmt.Sprintf("Setup:   %v", r.SetupTime),
		fmt.Sprintf("Ingest:  %v (%.1f docs/sec)  %s", r.IngestTime, r.DocsPerSecond, r.IngestLatency),
		fmt.Sprintf("Ticks:   %v (%.1f ticks/sec)  %s", r.TickTime, r.TicksPerSecond, r.TickLatency),
		fmt.Sprintf("Queries: %v (%.1f queries/sec)  %s", r.QueryTime, r.QueriesPerSecond, r.QueryLatency),
		fmt.Sprintf("Total:   %v", r.TotalTime),
		"",
		fmt.Sprintf("Graph: %d nodes, %d edges, %d cross-shard edges resolved", r.TotalNodes, r.TotalEdges, r.EdgesResolved),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func (l Latency) String() string {
	return fmt.Sprintf("p50=%sms p95=%sms p99=%sms max=%sms", ms(l.P50), ms(l.P95), ms(l.P99), ms(l.Max))
}
