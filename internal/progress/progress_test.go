package progress

import (
	"testing"
	"time"
)

func TestChannelSendDropsWhenFull(t *testing.T) {
	c := NewChannel(2)

	if !c.Send(Event{Kind: Started}) {
		t.Fatalf("expected first send to succeed")
	}
	if !c.Send(Event{Kind: Building}) {
		t.Fatalf("expected second send to succeed")
	}
	if c.Send(Event{Kind: Completed}) {
		t.Fatalf("expected third send to be dropped on a full queue of capacity 2")
	}

	<-c.Events()
	<-c.Events()
}

func TestChannelDefaultCapacity(t *testing.T) {
	c := NewChannel(0)
	if cap(c.ch) != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, cap(c.ch))
	}
}

func TestThrottlerFirstCallFires(t *testing.T) {
	th := NewThrottler(100, 50*time.Millisecond)
	if !th.Tick() {
		t.Fatalf("expected first tick to fire")
	}
}

func TestThrottlerFiresEveryN(t *testing.T) {
	th := NewThrottler(10, time.Hour)
	fired := 0
	for i := 0; i < 30; i++ {
		if th.Tick() {
			fired++
		}
	}
	// first call fires (lastSent is zero), then calls 10, 20, 30 also fire.
	if fired != 4 {
		t.Fatalf("expected 4 fires (1st + every 10th), got %d", fired)
	}
}

func TestThrottlerFiresOnInterval(t *testing.T) {
	th := NewThrottler(1_000_000, 10*time.Millisecond)
	th.Tick() // consumes the "first call always fires" case

	if th.Tick() {
		t.Fatalf("expected no fire immediately after the first tick")
	}

	time.Sleep(15 * time.Millisecond)
	if !th.Tick() {
		t.Fatalf("expected a fire once the interval elapsed")
	}
}

func TestNodeStrideRule(t *testing.T) {
	var s NodeStride

	for i := 0; i < 100; i++ {
		if !s.Allow() {
			t.Fatalf("expected node %d (< 100) to always be allowed", i)
		}
	}

	allowed := 0
	for i := 100; i < 200; i++ {
		if s.Allow() {
			allowed++
		}
	}
	// nodes 100..199: allowed when count%50==0 -> counts 100,150 allowed (2 of 100)
	if allowed != 2 {
		t.Fatalf("expected 2 allowed in stride range, got %d", allowed)
	}
}
