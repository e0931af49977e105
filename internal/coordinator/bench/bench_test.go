package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDocuments_CyclesTopics(t *testing.T) {
	docs := GenerateDocuments(20)
	require.Len(t, docs, 20)
	assert.Contains(t, docs[0].Title, "Cell Biology Document 0")
	assert.Contains(t, docs[8].Title, "Cell Biology")
	assert.NotEmpty(t, docs[3].Content)
	assert.NotEqual(t, docs[0].ID, docs[8].ID)
}

func TestRun_SmallCluster(t *testing.T) {
	cfg := Config{
		Shards:        2,
		Documents:     16,
		Ticks:         3,
		Queries:       2,
		SampleQueries: []string{"cell", "protein"},
		ResolveGhosts: true,
	}
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Shards)
	assert.Equal(t, 16, res.Documents)
	assert.Equal(t, 3, res.Ticks)
	assert.Equal(t, 4, res.Queries)
	assert.Greater(t, res.DocsPerSecond, 0.0)
	assert.Greater(t, res.TicksPerSecond, 0.0)
	assert.Greater(t, res.TotalNodes, 0)
	assert.LessOrEqual(t, res.TickLatency.P50, res.TickLatency.Max)
	assert.GreaterOrEqual(t, res.TotalTime, res.IngestTime)
}

func TestRun_RejectsBadConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{Shards: 0})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Shards: 1, Queries: 3})
	assert.Error(t, err)
}

func TestScaling(t *testing.T) {
	base := Config{Documents: 8, Ticks: 1, Queries: 1, SampleQueries: []string{"gene"}}
	results, err := Scaling(context.Background(), base, []int{1, 3})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Shards)
	assert.Equal(t, 3, results[1].Shards)
}

func TestSummarize(t *testing.T) {
	var durs []time.Duration
	for i := 100; i >= 1; i-- {
		durs = append(durs, time.Duration(i)*time.Millisecond)
	}
	l := summarize(durs)
	assert.Equal(t, time.Millisecond, l.Min)
	assert.Equal(t, 100*time.Millisecond, l.Max)
	assert.Equal(t, 50*time.Millisecond, l.P50)
	assert.Equal(t, 99*time.Millisecond, l.P99)
	assert.Equal(t, 50500*time.Microsecond, l.Mean)
	assert.Equal(t, Latency{}, summarize(nil))
}

func TestWriteCSV(t *testing.T) {
	r := Results{
		Shards:           3,
		Documents:        100,
		Ticks:            20,
		Queries:          60,
		DocsPerSecond:    1000,
		TicksPerSecond:   100,
		QueriesPerSecond: 500,
		TickLatency:      Latency{P50: 2 * time.Millisecond, P99: 5 * time.Millisecond},
		TotalNodes:       50,
		TotalEdges:       100,
		TotalTime:        360 * time.Millisecond,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"3", "100", "20", "60", "1000.00", "100.00", "500.00",
		"2.000", "5.000", "0.000", "0.000", "50", "100", "360"}, rows[1])
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Results{Shards: 2, Documents: 10, TotalNodes: 7}.WriteSummary(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== Distributed Colony Benchmark ==="))
	assert.Contains(t, out, "Shards: 2, Documents: 10")
	assert.Contains(t, out, "Graph: 7 nodes")
}

func BenchmarkIngest(b *testing.B) {
	for _, shards := range []int{1, 3} {
		b.Run(fmt.Sprintf("%d-shards", shards), func(b *testing.B) {
			svc, _ := newCluster(Config{Shards: shards, Workers: 4})
			defer func() { _ = svc.Close() }()
			docs := GenerateDocuments(b.N)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := svc.IngestDocument(ctx, docs[i]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	for _, resolve := range []bool{false, true} {
		name := "no-resolve"
		if resolve {
			name = "resolve"
		}
		b.Run(name, func(b *testing.B) {
			svc, _ := newCluster(Config{Shards: 3, Workers: 4, ResolveGhosts: resolve})
			defer func() { _ = svc.Close() }()
			ctx := context.Background()
			for _, doc := range GenerateDocuments(60) {
				if _, _, err := svc.IngestDocument(ctx, doc); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.Runner().RunTick(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQuery(b *testing.B) {
	svc, _ := newCluster(Config{Shards: 3, Workers: 4})
	defer func() { _ = svc.Close() }()
	ctx := context.Background()
	for _, doc := range GenerateDocuments(100) {
		if _, _, err := svc.IngestDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
	queries := DefaultConfig().SampleQueries

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Query(ctx, queries[i%len(queries)]); err != nil {
			b.Fatal(err)
		}
	}
}
