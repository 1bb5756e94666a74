package cluster

import (
	"sync/atomic"
	"time"
)

// Stats holds the operation counters every node reports via GET_STATS.
// Counters are plain atomics rather than a mutex-guarded struct since
// they are independent of each other and of every other piece of shared
// state (spec §5: "Stats counters: their own mutex; may be implemented
// with atomic counters").
type Stats struct {
	puts         atomic.Int64
	gets         atomic.Int64
	deletes      atomic.Int64
	replications atomic.Int64
	forwards     atomic.Int64
	startedAt    time.Time
}

// NewStats returns a Stats with its uptime clock started now.
func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) IncPuts()         { s.puts.Add(1) }
func (s *Stats) IncGets()         { s.gets.Add(1) }
func (s *Stats) IncDeletes()      { s.deletes.Add(1) }
func (s *Stats) IncReplications() { s.replications.Add(1) }
func (s *Stats) IncForwards()     { s.forwards.Add(1) }

// Snapshot is the point-in-time counter values returned by GET_STATS.
type Snapshot struct {
	Puts         int64         `json:"puts"`
	Gets         int64         `json:"gets"`
	Deletes      int64         `json:"deletes"`
	Replications int64         `json:"replications"`
	Forwards     int64         `json:"forwards"`
	Uptime       time.Duration `json:"uptime_seconds"`
	Keys         int           `json:"keys"`
	Peers        int           `json:"peers"`
}

// Snapshot reads every counter plus derived uptime/key-count/peer-count.
func (s *Stats) Snapshot(keyCount, peerCount int) Snapshot {
	return Snapshot{
		Puts:         s.puts.Load(),
		Gets:         s.gets.Load(),
		Deletes:      s.deletes.Load(),
		Replications: s.replications.Load(),
		Forwards:     s.forwards.Load(),
		Uptime:       time.Since(s.startedAt) / time.Second * time.Second,
		Keys:         keyCount,
		Peers:        peerCount,
	}
}
