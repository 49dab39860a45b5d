package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/barekit/adscope/pkg/keyword"
)

func TestInMemory_AppendAndHistory(t *testing.T) {
	arc := New()
	ctx := context.Background()

	first := keyword.Record{
		Term:         "seo services",
		SearchVolume: 1000,
		Competition:  keyword.CompetitionLow,
		CurrencyCode: "USD",
		RetrievedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	second := first
	second.SearchVolume = 1200
	second.RetrievedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if err := arc.Append(ctx, first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := arc.Append(ctx, second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	history, err := arc.History(ctx, "seo services")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}
	if history[0] != first || history[1] != second {
		t.Errorf("history out of order: %+v", history)
	}

	// Earlier snapshots stay untouched by later appends
	if history[0].SearchVolume != 1000 {
		t.Errorf("first snapshot mutated: %+v", history[0])
	}
}

func TestInMemory_HistoryOfUnknownTermIsEmpty(t *testing.T) {
	arc := New()

	history, err := arc.History(context.Background(), "never fetched")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}
}
