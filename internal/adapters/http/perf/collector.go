// Package perf keeps a short in-memory history of request and query latencies
// for the admin page.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"
)

// DefaultRingSize is enough history for a busy sign-up hour.
const DefaultRingSize = 4096

// EntryKind distinguishes HTTP requests from SQL statements.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is one timed event.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path" or a query label such as "SELECT registration"
	StatusCode int    // zero for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector stores the latest entries in a fixed ring; older ones are overwritten.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total int64
}

// NewCollector allocates a ring of the given size.
// PRE: size > 0, otherwise DefaultRingSize is used
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.total++
	c.mu.Unlock()
}

// TotalRecorded counts every entry ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Snapshot is the aggregate view shown on the admin page.
type Snapshot struct {
	TotalRecorded  int64
	Requests       int
	ServerErrors   int
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
}

// PathStat summarises one request path or query label.
type PathStat struct {
	Path  string
	Count int
	AvgMs float64
	MaxMs float64
}

// Snapshot aggregates entries recorded at or after since.
// PRE: topN > 0
// POST: SlowestPaths and SlowestQueries hold at most topN items, slowest average first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	entries := slices.Clone(c.ring)
	snap := Snapshot{TotalRecorded: c.total}
	c.mu.Unlock()

	var latencies []float64
	paths := map[string]*PathStat{}
	queries := map[string]*PathStat{}
	for _, e := range entries {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		if e.Kind == KindQuery {
			add(queries, e)
			continue
		}
		snap.Requests++
		if e.StatusCode >= 500 {
			snap.ServerErrors++
		}
		latencies = append(latencies, e.DurationMs)
		add(paths, e)
	}

	slices.Sort(latencies)
	snap.RequestP50Ms = nearestRank(latencies, 50)
	snap.RequestP95Ms = nearestRank(latencies, 95)
	snap.RequestP99Ms = nearestRank(latencies, 99)
	snap.SlowestPaths = slowest(paths, topN)
	snap.SlowestQueries = slowest(queries, topN)
	return snap
}

// add folds e into the running average for its path.
func add(stats map[string]*PathStat, e Entry) {
	s := stats[e.Path]
	if s == nil {
		s = &PathStat{Path: e.Path}
		stats[e.Path] = s
	}
	s.AvgMs += (e.DurationMs - s.AvgMs) / float64(s.Count+1)
	s.Count++
	s.MaxMs = max(s.MaxMs, e.DurationMs)
}

// nearestRank returns the p-th percentile of sorted, or 0 when it is empty.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	return sorted[min(max(rank, 1), len(sorted))-1]
}

func slowest(stats map[string]*PathStat, n int) []PathStat {
	out := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
