package marketdata

import (
	"context"
	"testing"
)

func TestStaticSnapshotsAreDeterministic(t *testing.T) {
	ctx := context.Background()

	a := NewStatic()
	b := NewStatic()

	for i := 0; i < 5; i++ {
		sa, err := a.Snapshot(ctx, "BTCUSDT")
		if err != nil {
			t.Fatal(err)
		}
		sb, err := b.Snapshot(ctx, "BTCUSDT")
		if err != nil {
			t.Fatal(err)
		}
		if sa.Price != sb.Price {
			t.Errorf("step %d: expected identical prices, got %f vs %f", i, sa.Price, sb.Price)
		}
	}
}

func TestStaticSnapshotCarries24hStats(t *testing.T) {
	s := NewStatic()

	snap, err := s.Snapshot(context.Background(), "ETHUSDT")
	if err != nil {
		t.Fatal(err)
	}

	if snap.Price <= 0 {
		t.Errorf("expected positive price, got %f", snap.Price)
	}
	if snap.High24h <= snap.Price || snap.Low24h >= snap.Price {
		t.Errorf("expected high/low to straddle price: %f / %f / %f", snap.Low24h, snap.Price, snap.High24h)
	}
}

func TestStaticSymbolsGetDistinctPrices(t *testing.T) {
	s := NewStatic()
	ctx := context.Background()

	btc, _ := s.Snapshot(ctx, "BTCUSDT")
	eth, _ := s.Snapshot(ctx, "ETHUSDT")

	if btc.Price == eth.Price {
		t.Error("expected different symbols to walk different price paths")
	}
}

func TestStaticRecentPricesLength(t *testing.T) {
	s := NewStatic()

	prices, err := s.RecentPrices(context.Background(), "BTCUSDT", 60)
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 60 {
		t.Fatalf("expected 60 prices, got %d", len(prices))
	}
	for i, p := range prices {
		if p <= 0 {
			t.Errorf("price[%d] = %f, want positive", i, p)
		}
	}
}
