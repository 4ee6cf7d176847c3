package source_store

import (
	"sync"
	"time"
)

// StoreStats tracks how sources were served and how often they were reparsed.
type StoreStats struct {
	TotalRequests    int64
	CachedTrees      int64
	LazyLoads        int64
	Parses           int64
	UnchangedUpserts int64
	LastResetTime    time.Time
	mutex            sync.RWMutex
}

func newStoreStats() *StoreStats {
	return &StoreStats{LastResetTime: time.Now()}
}

func (st *StoreStats) recordCachedTree() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.TotalRequests++
	st.CachedTrees++
}

func (st *StoreStats) recordLazyLoad() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.TotalRequests++
	st.LazyLoads++
}

func (st *StoreStats) recordParse() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.Parses++
}

func (st *StoreStats) recordUnchanged() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.UnchangedUpserts++
}

// Stats returns counters about the store and its records.
func (s *VirtualSourceStore) Stats() map[string]interface{} {
	s.mutex.RLock()
	records := len(s.records)
	synthetic := len(s.syntheticToReal)
	included := len(s.included)
	s.mutex.RUnlock()

	s.stats.mutex.RLock()
	defer s.stats.mutex.RUnlock()

	hitRate := 0.0
	if s.stats.TotalRequests > 0 {
		hitRate = float64(s.stats.CachedTrees) / float64(s.stats.TotalRequests) * 100
	}

	return map[string]interface{}{
		"records":           records,
		"synthetic_files":   synthetic,
		"included_files":    included,
		"total_requests":    s.stats.TotalRequests,
		"cached_trees":      s.stats.CachedTrees,
		"lazy_loads":        s.stats.LazyLoads,
		"parses":            s.stats.Parses,
		"unchanged_upserts": s.stats.UnchangedUpserts,
		"hit_rate_percent":  hitRate,
		"uptime_human":      time.Since(s.stats.LastResetTime).String(),
	}
}

// ResetStats resets all counters.
func (s *VirtualSourceStore) ResetStats() {
	s.stats.mutex.Lock()
	defer s.stats.mutex.Unlock()

	s.stats.TotalRequests = 0
	s.stats.CachedTrees = 0
	s.stats.LazyLoads = 0
	s.stats.Parses = 0
	s.stats.UnchangedUpserts = 0
	s.stats.LastResetTime = time.Now()
}
