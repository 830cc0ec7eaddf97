package service_test

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/observability"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/service"

	"go.uber.org/zap"
)

func newDashboard(reader *stubReader, cred *fakeCredential, policy service.PublishPolicy) (*service.Dashboard, *service.Reporter) {
	logger := zap.NewNop()
	reporter := service.NewReporter(logger)
	d := service.NewDashboard(reader, cred, reporter, observability.NewMetrics(), logger, policy, 3)
	return d, reporter
}

func signedIn() *fakeCredential {
	c := &fakeCredential{}
	c.SetToken("t1")
	return c
}

func TestRefreshPublishesAllFields(t *testing.T) {
	reader := newStubReader()
	d, reporter := newDashboard(reader, signedIn(), service.AllOrNothing)

	if err := d.Refresh(context.Background(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := d.Snapshot()
	if snap.BusinessID != 1 {
		t.Errorf("BusinessID = %d, want 1", snap.BusinessID)
	}
	if snap.Kpis == nil || snap.Kpis.NetCashflow != 600 {
		t.Errorf("Kpis = %+v, want net cashflow 600", snap.Kpis)
	}
	if snap.Score == nil || snap.Score.HealthScore != 80 {
		t.Errorf("Score = %+v", snap.Score)
	}
	if snap.Tone != domain.ToneExcellent {
		t.Errorf("Tone = %v, want excellent", snap.Tone)
	}
	if len(snap.Monthly) != 2 || len(snap.Forecast) != 1 {
		t.Errorf("Monthly/Forecast lengths = %d/%d, want 2/1", len(snap.Monthly), len(snap.Forecast))
	}
	if len(snap.Risks) != 1 || len(snap.Recommendations) != 1 || len(snap.Gst) != 1 {
		t.Errorf("Risks/Recommendations/Gst = %d/%d/%d, want 1 each", len(snap.Risks), len(snap.Recommendations), len(snap.Gst))
	}
	if snap.Summary == "" {
		t.Error("Summary is empty")
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("RefreshedAt not set")
	}
	if reporter.Message() != "" {
		t.Errorf("reporter message = %q, want empty", reporter.Message())
	}
	if d.Loading() {
		t.Error("Loading still true after refresh")
	}
}

func TestRefreshAllOrNothingLeavesSnapshotUntouched(t *testing.T) {
	reader := newStubReader()
	d, reporter := newDashboard(reader, signedIn(), service.AllOrNothing)

	if err := d.Refresh(context.Background(), 1); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	before := d.Snapshot()

	boom := &domain.ErrServerRejected{Operation: "gst.summary", Status: 500, Detail: "internal error"}
	reader.mu.Lock()
	reader.errOn["gst"] = boom
	reader.mu.Unlock()

	err := d.Refresh(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("Refresh error = %v, want %v", err, boom)
	}

	after := d.Snapshot()
	after.RefreshedAt = before.RefreshedAt
	if !reflect.DeepEqual(before, after) {
		t.Errorf("snapshot changed after failed refresh:\nbefore %+v\nafter  %+v", before, after)
	}
	if reporter.Message() != "internal error" {
		t.Errorf("reporter message = %q, want %q", reporter.Message(), "internal error")
	}
	// The seven healthy reads still ran to completion.
	for _, op := range []string{"kpis", "score", "monthly", "forecast", "risks", "recommendations", "summary"} {
		if got := reader.callCount(op); got != 2 {
			t.Errorf("%s called %d times, want 2", op, got)
		}
	}
	if d.Loading() {
		t.Error("Loading still true after failed refresh")
	}
}

func TestRefreshBestEffortPublishesSurvivors(t *testing.T) {
	reader := newStubReader()
	reader.errOn["summary"] = &domain.ErrTransport{Operation: "ai.summary", Err: errors.New("dial tcp: refused")}
	d, reporter := newDashboard(reader, signedIn(), service.BestEffort)

	if err := d.Refresh(context.Background(), 1); err == nil {
		t.Fatal("Refresh returned nil, want transport error")
	}

	snap := d.Snapshot()
	if snap.Kpis == nil || snap.Score == nil || len(snap.Monthly) == 0 {
		t.Errorf("surviving fields not published: %+v", snap)
	}
	if snap.Summary != "" {
		t.Errorf("failed field published: Summary = %q", snap.Summary)
	}
	if reporter.Message() != "Network error. Please try again." {
		t.Errorf("reporter message = %q", reporter.Message())
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	reader := newStubReader()
	d, _ := newDashboard(reader, &fakeCredential{}, service.AllOrNothing)

	if err := d.Refresh(context.Background(), 1); err != domain.ErrNoSession {
		t.Fatalf("Refresh error = %v, want ErrNoSession", err)
	}
	if got := reader.callCount("kpis"); got != 0 {
		t.Errorf("reads issued without session: kpis called %d times", got)
	}
}

func TestRefreshSupersededNeverPublishes(t *testing.T) {
	slow := newStubReader()
	slow.gate = make(chan struct{})
	d, _ := newDashboard(slow, signedIn(), service.AllOrNothing)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.Refresh(context.Background(), 1); err != nil {
			t.Errorf("superseded refresh returned %v, want nil", err)
		}
	}()

	// Wait until the slow refresh has its reads parked on the gate.
	for slow.callCount("gst") == 0 {
		runtime.Gosched()
	}
	if !d.Loading() {
		t.Error("Loading false while reads in flight")
	}

	// A newer refresh for another business lands first.
	d.Reset()
	close(slow.gate)
	wg.Wait()

	if snap := d.Snapshot(); snap.Kpis != nil {
		t.Errorf("stale refresh published after reset: %+v", snap)
	}
}

func TestResetClearsSnapshot(t *testing.T) {
	d, _ := newDashboard(newStubReader(), signedIn(), service.AllOrNothing)
	if err := d.Refresh(context.Background(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	d.Reset()
	if snap := d.Snapshot(); snap.Kpis != nil || snap.BusinessID != 0 {
		t.Errorf("snapshot not cleared: %+v", snap)
	}
	if d.Loading() {
		t.Error("Loading true after reset")
	}
}
