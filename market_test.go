package portfolio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPriceHistory_AsOf(t *testing.T) {
	h := &PriceHistory{}
	h.Add(NewDate(2025, time.January, 10), AUD(30))
	h.Add(NewDate(2025, time.January, 13), AUD(31))
	// out-of-order insertion
	h.Add(NewDate(2025, time.January, 6), AUD(29))

	tests := []struct {
		on    Date
		want  Money
		known bool
	}{
		{NewDate(2025, time.January, 5), Money{}, false},
		{NewDate(2025, time.January, 6), AUD(29), true},
		{NewDate(2025, time.January, 11), AUD(30), true}, // weekend, friday's close
		{NewDate(2025, time.June, 1), AUD(31), true},
	}
	for _, tc := range tests {
		got, known := h.AsOf(tc.on)
		if known != tc.known {
			t.Errorf("AsOf(%s) known = %v, want %v", tc.on, known, tc.known)
			continue
		}
		if known && !got.Equal(tc.want) {
			t.Errorf("AsOf(%s) = %s, want %s", tc.on, got, tc.want)
		}
	}
}

func TestPriceHistory_AddReplacesSameDay(t *testing.T) {
	h := &PriceHistory{}
	h.Add(NewDate(2025, time.January, 10), AUD(30))
	h.Add(NewDate(2025, time.January, 10), AUD(32))

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	got, _ := h.AsOf(NewDate(2025, time.January, 10))
	if want := AUD(32); !got.Equal(want) {
		t.Errorf("AsOf() = %s, want %s", got, want)
	}
}

func TestMarket_RoundTrip(t *testing.T) {
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 10), AUD(30.25))
	market.Add("WES", NewDate(2025, time.January, 10), AUD(71.1))
	market.Add("BHP", NewDate(2025, time.January, 13), AUD(31))

	var buf bytes.Buffer
	if err := EncodeMarket(&buf, market); err != nil {
		t.Fatalf("EncodeMarket() error = %v", err)
	}

	decoded, err := DecodeMarket(&buf)
	if err != nil {
		t.Fatalf("DecodeMarket() error = %v", err)
	}
	got, known := decoded.PriceAsOf("BHP", NewDate(2025, time.January, 10))
	if !known || !got.Equal(AUD(30.25)) {
		t.Errorf("PriceAsOf(BHP) = %s (%v), want 30.25 AUD", got, known)
	}
	if !decoded.Has("WES") {
		t.Error("Has(WES) = false, want true")
	}
}

func TestDecodeMarket_BadLine(t *testing.T) {
	_, err := DecodeMarket(strings.NewReader(`{"security":`))
	if err == nil {
		t.Fatal("DecodeMarket() error = nil, want parse error")
	}
}
