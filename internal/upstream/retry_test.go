package upstream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyDo(t *testing.T) {
	t.Run("stops after first success", func(t *testing.T) {
		calls := 0
		p := Policy{MaxAttempts: 3, Delay: LinearDelay(time.Millisecond)}
		err := p.Do(context.Background(), "test", func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("bounded attempts on persistent failure", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("boom")
		p := Policy{MaxAttempts: 2, Delay: LinearDelay(time.Millisecond)}
		err := p.Do(context.Background(), "test", func() error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected last error, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected exactly 2 attempts, got %d", calls)
		}
	})

	t.Run("succeeds on retry", func(t *testing.T) {
		calls := 0
		p := Policy{MaxAttempts: 2, Delay: LinearDelay(time.Millisecond)}
		err := p.Do(context.Background(), "test", func() error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("zero attempts treated as one", func(t *testing.T) {
		calls := 0
		p := Policy{}
		_ = p.Do(context.Background(), "test", func() error {
			calls++
			return errors.New("x")
		})
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		p := Policy{MaxAttempts: 5, Delay: LinearDelay(10 * time.Millisecond)}
		err := p.Do(ctx, "test", func() error {
			calls++
			cancel()
			return errors.New("transient")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("expected 1 call before cancellation, got %d", calls)
		}
	})
}
