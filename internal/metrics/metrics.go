package metrics

import (
	"log"
	"sort"
	"strings"
	"sync"
)

// Sink receives counter increments from pipeline components. Components
// hold an injected Sink instead of mutating process-wide counters.
type Sink interface {
	// Count adds delta to the named counter with the given tag values
	Count(name string, delta int64, tags map[string]string)
}

// Metric names emitted by the pipeline
const (
	NotificationsReceived  = "notifications_received_total"
	NotificationsQueued    = "notifications_queued_total"
	NotificationsRejected  = "notifications_rejected_total"
	NotificationsRouted    = "notifications_routed_total"
	NotificationsProcessed = "notifications_processed_total"
	NotificationsDuplicate = "notifications_duplicate_total"
	SendAttempts           = "send_attempts_total"
)

// NopSink discards all metrics
type NopSink struct{}

func (NopSink) Count(string, int64, map[string]string) {}

// LogSink writes counter totals to the process log. It keeps running
// totals so operators can grep current values from the log stream.
type LogSink struct {
	mu     sync.Mutex
	totals map[string]int64
}

func NewLogSink() *LogSink {
	return &LogSink{totals: make(map[string]int64)}
}

func (s *LogSink) Count(name string, delta int64, tags map[string]string) {
	key := name + formatTags(tags)

	s.mu.Lock()
	s.totals[key] += delta
	total := s.totals[key]
	s.mu.Unlock()

	log.Printf("metric %s = %d", key, total)
}

func formatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(tags[k])
	}
	b.WriteByte('}')
	return b.String()
}
