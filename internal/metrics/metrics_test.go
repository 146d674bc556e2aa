package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSaga(t *testing.T) {
	ok := SagasTotal.WithLabelValues("test_saga", OutcomeOK)
	failed := SagasTotal.WithLabelValues("test_saga", OutcomeFailed)
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordSaga("test_saga", 10*time.Millisecond, nil)
	RecordSaga("test_saga", 20*time.Millisecond, errors.New("boom"))
	RecordSaga("test_saga", 5*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(ok) - beforeOK; got != 1 {
		t.Fatalf("ok outcomes: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 2 {
		t.Fatalf("failed outcomes: want=2 got=%v", got)
	}
}

func TestRecordCompensation(t *testing.T) {
	c := CompensationsTotal.WithLabelValues("test_step", OutcomeFailed)
	before := testutil.ToFloat64(c)

	RecordCompensation("test_step", errors.New("store down"))
	RecordCompensation("test_step", nil)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("failed compensations: want=1 got=%v", got)
	}
}

func TestRecordConflict(t *testing.T) {
	c := UpdateConflicts.WithLabelValues("test_op")
	before := testutil.ToFloat64(c)
	RecordConflict("test_op")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("conflicts: want=1 got=%v", got)
	}
}
