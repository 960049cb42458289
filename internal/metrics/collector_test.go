package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestRecordTimingAggregates(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpVectorSearch, 10*time.Millisecond)
	c.RecordTiming(OpVectorSearch, 30*time.Millisecond)

	snap := c.Snapshot()
	op, ok := snap.Operations[OpVectorSearch]
	if !ok {
		t.Fatal("expected vector_search in snapshot")
	}
	if op.Count != 2 {
		t.Errorf("Count = %d, want 2", op.Count)
	}
	if op.TotalTimeMs != 40 {
		t.Errorf("TotalTimeMs = %d, want 40", op.TotalTimeMs)
	}
	if op.MinTimeMs != 10 || op.MaxTimeMs != 30 {
		t.Errorf("Min/Max = %d/%d, want 10/30", op.MinTimeMs, op.MaxTimeMs)
	}
	if op.AvgTimeMs != 20 {
		t.Errorf("AvgTimeMs = %v, want 20", op.AvgTimeMs)
	}
}

func TestSnapshotEmptyCollector(t *testing.T) {
	c := NewCollector()

	snap := c.Snapshot()
	if len(snap.Operations) != 0 {
		t.Errorf("Operations = %v, want empty", snap.Operations)
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %v", snap.UptimeSeconds)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	c.RecordTiming(OpChat, time.Millisecond)
	snap := c.Snapshot()

	if snap.Operations == nil {
		t.Error("nil collector snapshot should have a non-nil map")
	}
}

func TestRecordTimingConcurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.RecordTiming(OpChat, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Operations[OpChat].Count; got != 1000 {
		t.Errorf("Count = %d, want 1000", got)
	}
}
