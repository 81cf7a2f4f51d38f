package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	r := New(func(ctx context.Context) error { return nil })

	if r == nil {
		t.Fatal("New() returned nil")
	}
	if r.cron == nil {
		t.Error("cron is nil")
	}
}

func TestSetSchedule(t *testing.T) {
	r := New(func(ctx context.Context) error { return nil })

	if err := r.SetSchedule("*/5 * * * *"); err != nil {
		t.Errorf("SetSchedule() with valid cron = %v, want nil", err)
	}

	st := r.Status()
	if st.Schedule != "*/5 * * * *" {
		t.Errorf("Status().Schedule = %q, want %q", st.Schedule, "*/5 * * * *")
	}
}

func TestSetScheduleInvalidCron(t *testing.T) {
	r := New(func(ctx context.Context) error { return nil })

	if err := r.SetSchedule("invalid cron"); err == nil {
		t.Error("SetSchedule() with invalid cron = nil, want error")
	}
}

func TestSetScheduleReplacesExisting(t *testing.T) {
	r := New(func(ctx context.Context) error { return nil })

	if err := r.SetSchedule("0 2 * * *"); err != nil {
		t.Fatalf("SetSchedule() = %v", err)
	}
	if err := r.SetSchedule("0 3 * * *"); err != nil {
		t.Fatalf("SetSchedule() replacement = %v", err)
	}

	if got := r.Status().Schedule; got != "0 3 * * *" {
		t.Errorf("Status().Schedule = %q, want %q", got, "0 3 * * *")
	}
}

func TestTrigger(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{})
	r := New(func(ctx context.Context) error {
		runs.Add(1)
		close(done)
		return nil
	})
	r.Start()

	if err := r.Trigger(); err != nil {
		t.Fatalf("Trigger() = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run callback was not invoked")
	}

	<-r.Stop().Done()

	if got := runs.Load(); got != 1 {
		t.Errorf("run count = %d, want 1", got)
	}
}

func TestTriggerWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := New(func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	r.Start()

	if err := r.Trigger(); err != nil {
		t.Fatalf("Trigger() = %v", err)
	}
	<-started

	if err := r.Trigger(); err == nil {
		t.Error("Trigger() during a run = nil, want error")
	}

	close(release)
	<-r.Stop().Done()
}

func TestTriggerAfterStop(t *testing.T) {
	r := New(func(ctx context.Context) error { return nil })
	r.Start()
	<-r.Stop().Done()

	if err := r.Trigger(); err == nil {
		t.Error("Trigger() after Stop = nil, want error")
	}
}

func TestStatusRecordsLastError(t *testing.T) {
	wantErr := errors.New("backend unreachable")
	done := make(chan struct{})
	r := New(func(ctx context.Context) error {
		defer close(done)
		return wantErr
	})
	r.Start()

	if err := r.Trigger(); err != nil {
		t.Fatalf("Trigger() = %v", err)
	}
	<-done
	<-r.Stop().Done()

	st := r.Status()
	if st.LastError != wantErr.Error() {
		t.Errorf("Status().LastError = %q, want %q", st.LastError, wantErr.Error())
	}
	if !st.LastRun.IsZero() {
		t.Error("Status().LastRun set after a failed run, want zero")
	}
}

func TestStopCancelsRunContext(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})
	r := New(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})
	r.Start()

	if err := r.Trigger(); err != nil {
		t.Fatalf("Trigger() = %v", err)
	}
	<-started

	stopCtx := r.Stop()

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("run context was not canceled by Stop")
	}

	select {
	case <-stopCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Stop context never completed")
	}
}

func TestValidateExpr(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"every five minutes", "*/5 * * * *", false},
		{"daily at 2am", "0 2 * * *", false},
		{"empty", "", true},
		{"garbage", "not a cron", true},
		{"too many fields", "0 0 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpr(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}
