package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestDisabledWriterIsNil(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(nil, "plant.decision.ledger", lg)
	if w != nil {
		t.Fatal("expected nil writer with no brokers configured")
	}
	// Nil receivers must be safe no-ops so the engine never branches on it.
	if err := w.Append(context.Background(), Event{From: "MONITORING", To: "WATERING"}); err != nil {
		t.Fatalf("nil append: %v", err)
	}
	w.Close()
}
