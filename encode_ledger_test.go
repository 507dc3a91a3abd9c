package portfolio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDecodeLedger(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"buy","date":"2025-01-10","security":"BHP","quantity":100,"price":30.5,"currency":"AUD"}`,
		`{"command":"dividend","date":"2025-02-01","security":"BHP","amount":50,"currency":"AUD"}`,
		`{"command":"reinvest","date":"2025-03-01","security":"BHP","amount":100,"currency":"AUD","price":8}`,
		`{"command":"split","date":"2025-04-01","security":"BHP","num":2,"den":1}`,
		`{"command":"sell","date":"2025-05-01","security":"BHP","quantity":50,"price":18,"currency":"AUD"}`,
	}, "\n")

	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	var got []Transaction
	for _, tx := range ledger.Transactions() {
		got = append(got, tx)
	}
	if len(got) != 5 {
		t.Fatalf("len(transactions) = %d, want 5", len(got))
	}

	buy, ok := got[0].(Buy)
	if !ok {
		t.Fatalf("transactions[0] = %T, want Buy", got[0])
	}
	if !buy.Quantity.Equal(Q(100)) || !buy.Price.Equal(AUD(30.5)) {
		t.Errorf("Buy = %+v, want 100 @ 30.5 AUD", buy)
	}

	drp, ok := got[2].(ReinvestDividend)
	if !ok {
		t.Fatalf("transactions[2] = %T, want ReinvestDividend", got[2])
	}
	if want := Q(12.5); !drp.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", drp.Shares(), want)
	}

	split, ok := got[3].(Split)
	if !ok {
		t.Fatalf("transactions[3] = %T, want Split", got[3])
	}
	if split.Numerator != 2 || split.Denominator != 1 {
		t.Errorf("Split = %d:%d, want 2:1", split.Numerator, split.Denominator)
	}

	// The learned currency comes from the first priced transaction.
	if got := ledger.Currency(); got != "AUD" {
		t.Errorf("Currency() = %q, want AUD", got)
	}
}

func TestDecodeLedger_UnknownCommand(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"command":"short","date":"2025-01-10"}`))
	if err == nil {
		t.Fatal("DecodeLedger() error = nil, want unknown command error")
	}
}

func TestEncodeLedger_RoundTrip(t *testing.T) {
	ledger := NewLedger("AUD")
	ledger.Append(
		NewBuy(NewDate(2025, time.January, 10), "first buy", "BHP", Q(100), AUD(30.5)),
		NewCashDividend(NewDate(2025, time.February, 1), "", "BHP", AUD(50)),
		NewReinvestDividend(NewDate(2025, time.March, 1), "", "BHP", AUD(100), AUD(8)),
		NewSplit(NewDate(2025, time.April, 1), "BHP", 2, 1),
		NewSell(NewDate(2025, time.May, 1), "", "BHP", Q(50), AUD(18)),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	var original, roundTripped []Transaction
	for _, tx := range ledger.Transactions() {
		original = append(original, tx)
	}
	for _, tx := range decoded.Transactions() {
		roundTripped = append(roundTripped, tx)
	}
	if len(original) != len(roundTripped) {
		t.Fatalf("len = %d, want %d", len(roundTripped), len(original))
	}
	for i := range original {
		if !original[i].Equal(roundTripped[i]) {
			t.Errorf("transactions[%d]: got %+v, want %+v", i, roundTripped[i], original[i])
		}
	}
}

func TestEncodeTransaction_StableFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	tx := NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(30.5))
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatalf("EncodeTransaction() error = %v", err)
	}

	want := `{"command":"buy","date":"2025-01-10","security":"BHP","quantity":100,"price":30.5,"currency":"AUD"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodeTransaction() = %q, want %q", got, want)
	}
}
