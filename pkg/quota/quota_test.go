package quota

import (
	"context"
	"testing"
	"time"
)

func TestQuotaRaise(t *testing.T) {
	q := New(context.Background())
	if q.Reached() {
		t.Fatal("expected fresh quota to not be reached")
	}
	q.Raise()
	if !q.Reached() {
		t.Fatal("expected quota to be reached after Raise")
	}
}

func TestQuotaContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := New(ctx)
	if q.Reached() {
		t.Fatal("expected quota to not be reached before cancel")
	}
	cancel()
	if !q.Reached() {
		t.Fatal("expected quota to be reached after context cancel")
	}
	if q.Err() == nil {
		t.Fatal("expected non-nil Err after context cancel")
	}
}

func TestQuotaContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	q := New(ctx)
	time.Sleep(30 * time.Millisecond)
	if !q.Reached() {
		t.Fatal("expected quota to be reached after context deadline elapsed")
	}
}

func TestQuotaNilContext(t *testing.T) {
	q := New(nil)
	if q.Reached() {
		t.Fatal("expected quota bound to nil context to behave like context.Background")
	}
}
