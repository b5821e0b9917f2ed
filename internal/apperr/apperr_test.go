package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", InvalidInput("bad path"), http.StatusBadRequest},
		{"no files found", NoFilesFound("nothing matched"), http.StatusBadRequest},
		{"unknown model", UnknownModel("bogus"), http.StatusBadRequest},
		{"index unavailable", IndexUnavailable("store down", errors.New("conn refused")), http.StatusInternalServerError},
		{"generator unavailable", GeneratorUnavailable("llm down", errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("context: %w", InvalidInput("bad")), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := IndexUnavailable("replace failed", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "replace failed: underlying" {
		t.Errorf("got %q", err.Error())
	}
	bare := InvalidInput("bad path")
	if bare.Error() != "bad path" {
		t.Errorf("got %q", bare.Error())
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(UnknownModel("x")) != KindUnknownModel {
		t.Error("expected KindUnknownModel")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain errors map to KindInternal")
	}
}
