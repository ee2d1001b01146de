package automaton

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxSubsetStates != 1<<20 {
		t.Errorf("MaxSubsetStates = %d, want %d", cfg.MaxSubsetStates, 1<<20)
	}
	if cfg.IncrementalDirtyThreshold != 0.5 {
		t.Errorf("IncrementalDirtyThreshold = %v, want 0.5", cfg.IncrementalDirtyThreshold)
	}
	if cfg.ResultCacheCapacity != 1024 {
		t.Errorf("ResultCacheCapacity = %d, want 1024", cfg.ResultCacheCapacity)
	}
	if cfg.BalancePerformanceTopK != 32 {
		t.Errorf("BalancePerformanceTopK = %d, want 32", cfg.BalancePerformanceTopK)
	}
}

func TestBackgroundNeverCancels(t *testing.T) {
	tok := Background()
	select {
	case <-tok.Done():
		t.Fatal("Background() token should never fire")
	default:
	}
	if err := CheckCancelled(tok, "test"); err != nil {
		t.Errorf("CheckCancelled on a background token: %v", err)
	}
}

func TestCheckCancelledNilTokenIsNoop(t *testing.T) {
	if err := CheckCancelled(nil, "phase"); err != nil {
		t.Errorf("CheckCancelled(nil, ...) = %v, want nil", err)
	}
}

func TestWithDeadlineFiresOperationTimeout(t *testing.T) {
	tok, cancel := WithDeadline(1 * time.Millisecond)
	defer cancel()
	<-tok.Done()
	if tok.Err() != context.DeadlineExceeded {
		t.Fatalf("tok.Err() = %v, want DeadlineExceeded", tok.Err())
	}
	err := CheckCancelled(tok, "refine")
	if err == nil {
		t.Fatal("expected an *OperationTimeout after the deadline elapses")
	}
	if to, ok := err.(*OperationTimeout); !ok || to.Phase != "refine" {
		t.Errorf("CheckCancelled returned %#v, want *OperationTimeout{Phase: \"refine\"}", err)
	}
}

func TestWithDeadlineCancelStopsTheTimer(t *testing.T) {
	tok, cancel := WithDeadline(time.Hour)
	cancel()
	<-tok.Done()
	err := CheckCancelled(tok, "phase")
	if _, ok := err.(*OperationCancelled); !ok {
		t.Errorf("expected *OperationCancelled after explicit cancel, got %#v", err)
	}
}
