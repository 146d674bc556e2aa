package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfClassifiesWrappedErrors(t *testing.T) {
	base := NotFound("spot not found")
	wrapped := fmt.Errorf("load spot: %w", base)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("kind: want=%q got=%q", KindNotFound, got)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("errors.Is should match the sentinel through wrapping")
	}
}

func TestUnknownForwardsMessage(t *testing.T) {
	err := Unknown(errors.New("connection reset by peer"))
	if got := err.Error(); got != "connection reset by peer" {
		t.Fatalf("message: want=%q got=%q", "connection reset by peer", got)
	}
	if KindOf(err) != KindUnknown {
		t.Fatalf("kind: want=%q got=%q", KindUnknown, KindOf(err))
	}
	if Unknown(nil) != nil {
		t.Fatalf("Unknown(nil) should be nil")
	}
}

func TestUnknownKeepsExistingKind(t *testing.T) {
	orig := Forbidden("not yours")
	if got := Unknown(orig); got != error(orig) {
		t.Fatalf("classified errors should pass through unchanged, got=%v", got)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad title"), http.StatusBadRequest},
		{Conflict("title taken"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("Status(%v): want=%d got=%d", tc.err, tc.want, got)
		}
	}
}
