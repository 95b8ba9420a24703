package queue

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	now := time.Date(2026, time.January, 30, 22, 0, 0, 0, time.UTC)
	msg := SubmissionCreated("sub-123", "Mr. Radia", "AA HL", 87, "request-456", now)

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
	if got.Type != TypeSubmissionCreated || got.EnqueuedAt != "2026-01-30T22:00:00Z" {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestDecodeMessageRejectsUnknownVersion(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"type":"submission.created","version":9}`)); err == nil {
		t.Fatalf("expected version error")
	}
	if _, err := DecodeMessage([]byte(`{`)); err == nil {
		t.Fatalf("expected json error")
	}
}

func TestMemoryClientCollects(t *testing.T) {
	c := NewMemoryClient()
	msg := SubmissionCreated("sub-1", "Ms. Lee", "AI SL", 55, "", time.Now())
	if err := c.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := c.Messages(); len(got) != 1 || got[0].SubmissionID != "sub-1" {
		t.Fatalf("unexpected messages %+v", got)
	}
}
