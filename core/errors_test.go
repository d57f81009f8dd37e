package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWithCode(t *testing.T) {
	err := ErrorWithCode(nil, EPERSIST)
	if Code(err) != EPERSIST {
		t.Errorf("expected code %d, have %d", EPERSIST, Code(err))
	}
	if Summary(err) != "write failed" {
		t.Errorf("expected summary 'write failed', have %q", Summary(err))
	}
}

func TestWrapErrorKeepsDetail(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, EPERSIST, "cannot write %s", "out.ttf")
	if Summary(err) != "cannot write out.ttf" {
		t.Errorf("unexpected summary %q", Summary(err))
	}
	if Detail(err) != "permission denied" {
		t.Errorf("unexpected detail %q", Detail(err))
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause to be found by errors.Is")
	}
}

func TestKindMatchesCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", WrapError(nil, EDEFAULTRANGE, "wght"))
	if !errors.Is(err, Kind(EDEFAULTRANGE)) {
		t.Errorf("expected errors.Is to match error kind")
	}
	if errors.Is(err, Kind(EINVALIDRANGE)) {
		t.Errorf("expected errors.Is not to match a different kind")
	}
}

func TestForeignErrors(t *testing.T) {
	err := errors.New("boom")
	if Code(err) != EINTERNAL {
		t.Errorf("expected foreign error to map to EINTERNAL, is %d", Code(err))
	}
	if Detail(err) != "boom" {
		t.Errorf("expected detail of foreign error to be its text, is %q", Detail(err))
	}
	if Code(nil) != NOERROR || Detail(nil) != "" {
		t.Errorf("expected nil error to have no code and no detail")
	}
}
