package live

import (
	"testing"
	"time"

	"tokenbench/internal/runner"
	"tokenbench/internal/testutil"
)

// TestReduceRunLifecycle verifies core status transitions are recorded.
func TestReduceRunLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := State{}
		state = Reduce(state, event("find-auth", "baseline", runner.RunQueued, start))
		state = Reduce(state, event("find-auth", "baseline", runner.RunStarted, start))
		done := event("find-auth", "baseline", runner.RunCorrect, start.Add(150*time.Millisecond))
		done.NumTurns = 4
		done.ContextTokens = 23500
		done.CostUSD = 0.12
		state = Reduce(state, done)

		if len(state.Rows) != 1 {
			t.Fatalf("expected one row, got %d", len(state.Rows))
		}
		row := state.Rows[0]
		if row.Status != runner.RunCorrect {
			t.Fatalf("expected correct status, got %s", row.Status)
		}
		if row.ContextTokens != 23500 {
			t.Fatalf("expected context tokens to be set, got %d", row.ContextTokens)
		}
		if row.StartedAt.IsZero() || row.FinishedAt.IsZero() {
			t.Fatalf("expected start and finish times to be set")
		}
		if state.Counts.Correct != 1 || state.Counts.Done != 1 {
			t.Fatalf("unexpected counts: %+v", state.Counts)
		}
	})
}

// TestReduceKeysRowsByCell verifies distinct cells get distinct rows.
func TestReduceKeysRowsByCell(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := State{}
		state = Reduce(state, event("find-auth", "baseline", runner.RunStarted, now))
		state = Reduce(state, event("find-auth", "candidate", runner.RunStarted, now))
		rep1 := event("find-auth", "baseline", runner.RunStarted, now)
		rep1.Repetition = 1
		state = Reduce(state, rep1)

		if len(state.Rows) != 3 {
			t.Fatalf("expected three rows, got %d", len(state.Rows))
		}
		if state.Counts.Running != 3 {
			t.Fatalf("expected running count 3, got %d", state.Counts.Running)
		}
	})
}

// TestReduceErrorRecordsMessage verifies error details reach the row.
func TestReduceErrorRecordsMessage(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := State{}
		errored := event("fix-bug", "baseline", runner.RunErrored, time.Now())
		errored.Error = "claude timeout"
		state = Reduce(state, errored)

		if state.Rows[0].Error != "claude timeout" {
			t.Fatalf("expected error to be recorded, got %q", state.Rows[0].Error)
		}
		if state.Counts.Errored != 1 {
			t.Fatalf("expected errored count 1, got %d", state.Counts.Errored)
		}
		if state.LastEvent == "" {
			t.Fatalf("expected last event message")
		}
	})
}

// TestReduceIncorrectKeepsReason verifies check reasons are shown.
func TestReduceIncorrectKeepsReason(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := State{}
		incorrect := event("fix-bug", "candidate", runner.RunIncorrect, time.Now())
		incorrect.Reason = "Missing: refresh_token"
		state = Reduce(state, incorrect)

		if state.Rows[0].Reason != "Missing: refresh_token" {
			t.Fatalf("expected reason to be recorded, got %q", state.Rows[0].Reason)
		}
		if state.LastEvent != "fix-bug/candidate/sonnet rep0 incorrect (Missing: refresh_token)" {
			t.Fatalf("unexpected last event: %q", state.LastEvent)
		}
	})
}

// event builds a run event for tests.
func event(task, mode string, kind runner.RunEventType, when time.Time) runner.RunEvent {
	return runner.RunEvent{
		Task:      task,
		Mode:      mode,
		Model:     "sonnet",
		Type:      kind,
		EmittedAt: when,
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
