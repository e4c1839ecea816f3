package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
		record    bool
	}{
		{context.Canceled, false, false},
		{fmt.Errorf("nats publish: %w", nats.ErrConnectionClosed), true, true},
		{nats.ErrNoResponders, true, true},
		{nats.ErrTimeout, true, true},
		{nats.ErrBadSubject, false, true},
	}
	for _, tc := range cases {
		got := classifyNATSError(tc.err)
		if got.Retryable != tc.retryable || got.RecordFailure != tc.record {
			t.Fatalf("classifyNATSError(%v) = %+v", tc.err, got)
		}
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded("nats publish", fmt.Errorf("x: %w", nats.ErrNoServers))
	if !domain.IsKind(err, domain.ErrTemporary) || !errors.Is(err, nats.ErrNoServers) {
		t.Fatalf("expected temporary wrapping cause, got %v", err)
	}
	if got := wrapTemporaryIfNeeded("nats publish", nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	permanent := errors.New("bad subject")
	if got := wrapTemporaryIfNeeded("nats publish", permanent); got != permanent {
		t.Fatalf("expected permanent unchanged, got %v", got)
	}
}
