package watch_test

import (
	"testing"
	"time"

	"github.com/ega-bank/ega-bank-client/internal/watch"
)

func recv(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a value")
		return 0
	}
}

func TestValueGetSet(t *testing.T) {
	v := watch.NewValue(1)
	if got := v.Get(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	v.Set(2)
	if got := v.Get(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestSubscribeReplaysCurrentValue(t *testing.T) {
	v := watch.NewValue(7)
	ch, cancel := v.Subscribe()
	defer cancel()

	if got := recv(t, ch); got != 7 {
		t.Fatalf("got %d, want the current value 7", got)
	}
}

func TestSubscribeReceivesSubsequentPublishes(t *testing.T) {
	v := watch.NewValue(0)
	ch, cancel := v.Subscribe()
	defer cancel()
	recv(t, ch)

	v.Set(1)
	v.Set(2)

	if got := recv(t, ch); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := recv(t, ch); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestSlowSubscriberKeepsLatestValue(t *testing.T) {
	v := watch.NewValue(0)
	ch, cancel := v.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer without draining it.
	for i := 1; i <= 40; i++ {
		v.Set(i)
	}

	last := 0
	for {
		select {
		case got := <-ch:
			last = got
			continue
		default:
		}
		break
	}
	if last != 40 {
		t.Fatalf("latest value %d never landed, last received %d", 40, last)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	v := watch.NewValue(0)
	ch, cancel := v.Subscribe()
	recv(t, ch)

	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		// A buffered publish may still drain; the channel must close
		// after that.
		for range ch {
		}
	}

	// A publish after cancel must not panic.
	v.Set(9)
}

func TestIndependentSubscribers(t *testing.T) {
	v := watch.NewValue("a")
	first, cancelFirst := v.Subscribe()
	second, cancelSecond := v.Subscribe()
	defer cancelSecond()

	if got := <-first; got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := <-second; got != "a" {
		t.Fatalf("got %q", got)
	}

	cancelFirst()
	v.Set("b")

	if got := <-second; got != "b" {
		t.Fatalf("remaining subscriber got %q, want %q", got, "b")
	}
}
