package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ErrNotFound("lead not found"), http.StatusNotFound},
		{ErrForbidden("paid plan required"), http.StatusForbidden},
		{ErrValidation("bad input"), http.StatusBadRequest},
		{ErrInternal("db down", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatusCode(); got != tt.want {
			t.Errorf("%s: HTTPStatusCode() = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrInternal("write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsNotFound(ErrNotFound("x")) {
		t.Error("IsNotFound(ErrNotFound) = false")
	}
	if KindOf(wrapped) != ErrorKindInternal {
		t.Errorf("KindOf(wrapped) = %v, want internal", KindOf(wrapped))
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	if KindOf(errors.New("plain")) != ErrorKindInternal {
		t.Error("foreign errors should classify as internal")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}

func TestErrorMessage(t *testing.T) {
	err := ErrInternal("query failed", errors.New("locked"))
	if err.Error() != "internal: query failed: locked" {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := ErrValidation("name required")
	if bare.Error() != "validation: name required" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
