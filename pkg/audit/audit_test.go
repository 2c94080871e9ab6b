package audit

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent("root", OpResolve).
		WithInterface("enp3s0", "00:0c:29:aa:bb:01").
		WithDecision("eth0", "hwid-driver-linked").
		WithSuccess().
		WithDuration(3 * time.Millisecond)

	if event.ID == "" {
		t.Error("ID should be generated")
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if event.Operation != OpResolve {
		t.Errorf("Operation = %q, want %q", event.Operation, OpResolve)
	}
	if event.Interface != "enp3s0" || event.Address != "00:0c:29:aa:bb:01" {
		t.Errorf("interface fields = %q/%q", event.Interface, event.Address)
	}
	if event.Name != "eth0" || event.Rule != "hwid-driver-linked" {
		t.Errorf("decision fields = %q/%q", event.Name, event.Rule)
	}
	if !event.Success {
		t.Error("Success should be true")
	}
	if event.Duration != 3*time.Millisecond {
		t.Errorf("Duration = %v", event.Duration)
	}
}

func TestEventWithError(t *testing.T) {
	event := NewEvent("root", OpRender).
		WithRender("/etc/confgen/config.yaml", "", 0).
		WithSuccess().
		WithError(errors.New("bad table"))

	if event.Success {
		t.Error("WithError should clear Success")
	}
	if event.Error != "bad table" {
		t.Errorf("Error = %q", event.Error)
	}
	if event.Source != "/etc/confgen/config.yaml" {
		t.Errorf("Source = %q", event.Source)
	}

	event = NewEvent("root", OpRender).WithError(nil)
	if event.Error != "" {
		t.Errorf("nil error should leave Error empty, got %q", event.Error)
	}
}

func newTestLogger(t *testing.T, rotation RotationConfig) (*FileLogger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	logger, err := NewFileLogger(path, rotation)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestFileLoggerLogAndQuery(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	events := []*Event{
		NewEvent("root", OpResolve).WithInterface("enp3s0", "00:0c:29:aa:bb:01").WithDecision("eth0", "hwid-driver-linked").WithSuccess(),
		NewEvent("root", OpResolve).WithInterface("enp4s0", "00:0c:29:aa:bb:02").WithDecision("", "no-match").WithSuccess(),
		NewEvent("root", OpRender).WithRender("config.yaml", "frr.conf", 7).WithSuccess(),
		NewEvent("root", OpRender).WithRender("broken.yaml", "", 0).WithError(errors.New("structure")),
	}
	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"by operation", Filter{Operation: OpResolve}, 2},
		{"by interface", Filter{Interface: "enp4s0"}, 1},
		{"by name", Filter{Name: "eth0"}, 1},
		{"success only", Filter{SuccessOnly: true}, 3},
		{"failure only", Filter{FailureOnly: true}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"offset", Filter{Offset: 3}, 1},
		{"offset past end", Filter{Offset: 10}, 0},
		{"future start", Filter{StartTime: time.Now().Add(time.Hour)}, 0},
		{"past end", Filter{EndTime: time.Now().Add(-time.Hour)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logger.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Query() returned %d events, want %d", len(got), tt.want)
			}
		})
	}

	got, _ := logger.Query(Filter{Operation: OpRender, SuccessOnly: true})
	if len(got) != 1 || got[0].Statements != 7 || got[0].Output != "frr.conf" {
		t.Errorf("render event did not round-trip: %+v", got)
	}
}

func TestFileLoggerQuerySkipsMalformedLines(t *testing.T) {
	logger, path := newTestLogger(t, RotationConfig{})

	if err := logger.Log(NewEvent("root", OpResolve).WithSuccess()); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("not json\n")
	f.Close()
	if err := logger.Log(NewEvent("root", OpRender).WithSuccess()); err != nil {
		t.Fatal(err)
	}

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Query() returned %d events, want 2", len(got))
	}
}

func TestFileLoggerRotation(t *testing.T) {
	logger, path := newTestLogger(t, RotationConfig{MaxSize: 1, MaxBackups: 2})

	for i := 0; i < 5; i++ {
		if err := logger.Log(NewEvent("root", OpResolve).WithSuccess()); err != nil {
			t.Fatalf("Log() #%d error = %v", i, err)
		}
	}

	backups, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("got %d backups, want 2: %v", len(backups), backups)
	}

	// Every write after the first rotated, so the live file holds one event.
	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("current file holds %d events, want 1", len(got))
	}
}

func TestFileLoggerRotationFailureKeepsLogging(t *testing.T) {
	logger, path := newTestLogger(t, RotationConfig{MaxSize: 1})

	if err := logger.Log(NewEvent("root", OpResolve).WithSuccess()); err != nil {
		t.Fatal(err)
	}
	// With the live file gone, the rename inside rotation fails.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := logger.Log(NewEvent("root", OpResolve).WithSuccess()); err == nil {
		t.Fatal("Log() should report the failed rotation")
	}

	if err := logger.Log(NewEvent("root", OpRender).WithSuccess()); err != nil {
		t.Fatalf("Log() after failed rotation error = %v", err)
	}
	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Operation != OpRender {
		t.Errorf("Query() = %+v, want the event logged after the failure", got)
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log(NewEvent("root", OpResolve).WithSuccess())
		}()
	}
	wg.Wait()

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 20 {
		t.Errorf("Query() returned %d events, want 20", len(got))
	}
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
