package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOverridesReload(t *testing.T) {
	before := testutil.ToFloat64(overridesReloadTotal.WithLabelValues("manual", "failure"))
	at := time.Unix(1_790_000_000, 0)

	RecordOverridesReload("manual", "success", at)
	if got := testutil.ToFloat64(overridesLastReload); got != float64(at.Unix()) {
		t.Errorf("last reload = %v, want %v", got, at.Unix())
	}

	RecordOverridesReload("manual", "failure", at.Add(time.Hour))
	if got := testutil.ToFloat64(overridesLastReload); got != float64(at.Unix()) {
		t.Errorf("a failed reload must not move the timestamp, got %v", got)
	}
	if got := testutil.ToFloat64(overridesReloadTotal.WithLabelValues("manual", "failure")); got != before+1 {
		t.Errorf("failure counter = %v, want %v", got, before+1)
	}
}

func TestFeedbackCounters(t *testing.T) {
	clicks := testutil.ToFloat64(feedbackClicksTotal)
	pruned := testutil.ToFloat64(feedbackPrunedTotal)

	IncFeedbackClick()
	AddFeedbackPruned(3)
	RecordFeedbackPages(5)

	if got := testutil.ToFloat64(feedbackClicksTotal); got != clicks+1 {
		t.Errorf("clicks = %v, want %v", got, clicks+1)
	}
	if got := testutil.ToFloat64(feedbackPrunedTotal); got != pruned+3 {
		t.Errorf("pruned = %v, want %v", got, pruned+3)
	}
	if got := testutil.ToFloat64(feedbackPages); got != 5 {
		t.Errorf("pages = %v, want 5", got)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest("GET", "/api/theme", 200, 10*time.Millisecond)
	if n := testutil.CollectAndCount(httpRequestDuration); n == 0 {
		t.Error("histogram should have at least one series")
	}
}
