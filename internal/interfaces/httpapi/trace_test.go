package httpapi

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetHandicap", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpanStatusFor(t *testing.T) {
	if _, ok := spanStatusFor(404); ok {
		t.Fatalf("expected client errors to leave span status unset")
	}
	if code, ok := spanStatusFor(503); !ok || code != codes.Error {
		t.Fatalf("expected error status for 503, got %v ok=%v", code, ok)
	}
}

func TestRecordSpanError_WithoutSpanIsNoop(t *testing.T) {
	recordSpanError(context.Background(), 500, errors.New("boom"))
}
