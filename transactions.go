package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
	CmdReinvest CommandType = "reinvest"
	CmdSplit    CommandType = "split"
)

// Transaction defines the common interface for all types of financial
// transactions that can be recorded in the ledger. Transactions are immutable
// once recorded: corrections are represented as new offsetting transactions.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "sell").
	When() Date        // When returns the date on which the transaction occurred.
	Ticker() string    // Ticker returns the security the transaction applies to.
	Equal(Transaction) bool
	Validate(ledger *Ledger) (Transaction, error)
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction (e.g., "buy", "sell").
	Date    Date        `json:"date"`           // Date is the date when the transaction took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional rationale or note for the transaction.
}

// What returns the command name for the transaction.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the transaction.
func (t baseCmd) When() Date { return t.Date }

// Rationale returns the memo associated with the transaction.
func (t baseCmd) Rationale() string { return t.Memo }

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Validate checks the base command fields. It sets the date to today if it's zero.
// It's meant to be embedded in other transaction validation methods.
func (t *baseCmd) Validate() {
	if t.Date == (Date{}) {
		t.Date = Today()
	}
}

// secCmd is the component shared by all security-scoped transactions.
type secCmd struct {
	baseCmd
	Security string `json:"security"` // Security is the ticker symbol of the security involved in the transaction.
}

// Ticker returns the security ticker the transaction applies to.
func (t secCmd) Ticker() string { return t.Security }

// Validate checks the security command fields.
func (t *secCmd) Validate() error {
	t.baseCmd.Validate()
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("security", t.Security)
	return w.MarshalJSON()
}

// fixCurrency fills an empty currency with the ledger's currency, and rejects
// a mismatching one.
func fixCurrency(m Money, ledger *Ledger) (Money, error) {
	if m.Currency() == "" {
		return M(m.value, ledger.Currency()), nil
	}
	if ledger.Currency() != "" && m.Currency() != ledger.Currency() {
		return m, fmt.Errorf("currency %s does not match ledger currency %s", m.Currency(), ledger.Currency())
	}
	return m, nil
}

// --- Buy Command ---

// Buy represents a transaction where a quantity of a security is purchased
// at a given unit price. It opens a new lot.
type Buy struct {
	secCmd
	Quantity Quantity // Quantity is the number of shares or units bought.
	Price    Money    // Price is the unit price paid per share.
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, memo, security string, quantity Quantity, price Money) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Security: security},
		Quantity: quantity,
		Price:    price,
	}
}

// Cost returns the total cost of the purchase.
func (t Buy) Cost() Money { return t.Price.Mul(t.Quantity) }

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Optional("currency", t.Price.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		priceCmd
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Quantity = temp.Quantity
	t.Price = temp.Money()
	return nil
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price)
}

// Validate checks the Buy transaction's fields. It ensures that the quantity
// and unit price are positive, and fixes a missing currency from the ledger.
func (t Buy) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("buy transaction quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return t, fmt.Errorf("buy transaction price must be positive, got %s", t.Price)
	}
	price, err := fixCurrency(t.Price, ledger)
	if err != nil {
		return t, fmt.Errorf("buy transaction: %w", err)
	}
	t.Price = price
	return t, nil
}

// --- Sell Command ---

// Sell represents a transaction where a quantity of a security is sold at a
// given unit price. It consumes open lots in the order selected by the
// matching method of the calculation that replays it.
type Sell struct {
	secCmd
	Quantity Quantity // Quantity is the number of shares or units sold.
	Price    Money    // Price is the unit price received per share.
}

// NewSell creates a new Sell transaction.
// If the quantity is set to 0, it signifies a "sell all" instruction: the
// actual number of shares is resolved during validation from the position on
// the transaction date.
func NewSell(day Date, memo, security string, quantity Quantity, price Money) Sell {
	return Sell{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Memo: memo}, Security: security},
		Quantity: quantity,
		Price:    price,
	}
}

// Proceeds returns the total proceeds of the sale.
func (t Sell) Proceeds() Money { return t.Price.Mul(t.Quantity) }

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Optional("currency", t.Price.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		priceCmd
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Quantity = temp.Quantity
	t.Price = temp.Money()
	return nil
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price)
}

// Validate checks the Sell transaction's fields. It resolves a zero quantity
// to the full position ("sell all") and rejects a sale that exceeds the open
// position on the transaction date.
func (t Sell) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Price.IsPositive() {
		return t, fmt.Errorf("sell transaction price must be positive, got %s", t.Price)
	}
	price, err := fixCurrency(t.Price, ledger)
	if err != nil {
		return t, fmt.Errorf("sell transaction: %w", err)
	}
	t.Price = price

	pos := ledger.Position(t.Security, t.Date)
	if t.Quantity.IsZero() {
		// quick fix, sell all.
		t.Quantity = pos
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("sell transaction quantity must be positive, got %s", t.Quantity)
	}
	if pos.LessThan(t.Quantity) {
		return t, &OversellError{Security: t.Security, Date: t.Date, Requested: t.Quantity, Available: pos}
	}
	return t, nil
}

// --- Dividend Command ---

// CashDividend represents a cash dividend payment received for a held
// security. It does not create a lot and does not affect cost basis; it only
// contributes to the security's cumulative cash dividends.
type CashDividend struct {
	secCmd
	Amount Money // Amount is the total cash received.
}

// NewCashDividend creates a new CashDividend transaction.
func NewCashDividend(day Date, memo, security string, amount Money) CashDividend {
	return CashDividend{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdDividend, Date: day, Memo: memo}, Security: security},
		Amount: amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for CashDividend.
func (t CashDividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.EmbedFrom(t.Amount.exact())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for CashDividend.
func (t *CashDividend) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		amountCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Amount = temp.Money()
	return nil
}

func (t CashDividend) Equal(other Transaction) bool {
	o, ok := other.(CashDividend)
	return ok && t.secCmd == o.secCmd && t.Amount.Equal(o.Amount)
}

// Validate checks the CashDividend transaction's fields.
func (t CashDividend) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Amount.IsPositive() {
		return t, errors.New("dividend must have a positive amount")
	}
	amount, err := fixCurrency(t.Amount, ledger)
	if err != nil {
		return t, fmt.Errorf("dividend transaction: %w", err)
	}
	t.Amount = amount
	return t, nil
}

// --- Reinvest Command (DRP) ---

// ReinvestDividend represents a dividend reinvestment: a cash dividend
// automatically converted into additional shares at the reinvestment price.
// It opens a new lot of origin drp with quantity = Amount / Price.
type ReinvestDividend struct {
	secCmd
	Amount Money // Amount is the cash dividend that was reinvested.
	Price  Money // Price is the reinvestment price per share.
}

// NewReinvestDividend creates a new ReinvestDividend transaction.
func NewReinvestDividend(day Date, memo, security string, amount, price Money) ReinvestDividend {
	return ReinvestDividend{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdReinvest, Date: day, Memo: memo}, Security: security},
		Amount: amount,
		Price:  price,
	}
}

// Shares returns the number of shares issued by the reinvestment.
func (t ReinvestDividend) Shares() Quantity { return t.Amount.DivPrice(t.Price) }

// MarshalJSON implements the json.Marshaler interface for ReinvestDividend.
func (t ReinvestDividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.EmbedFrom(t.Amount.exact())
	w.Append("price", t.Price.value)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for ReinvestDividend.
func (t *ReinvestDividend) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		amountCmd
		Price decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Amount = temp.amountCmd.Money()
	t.Price = M(temp.Price, temp.amountCmd.Currency)
	return nil
}

func (t ReinvestDividend) Equal(other Transaction) bool {
	o, ok := other.(ReinvestDividend)
	return ok && t.secCmd == o.secCmd && t.Amount.Equal(o.Amount) && t.Price.Equal(o.Price)
}

// Validate checks the ReinvestDividend transaction's fields.
func (t ReinvestDividend) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Amount.IsPositive() {
		return t, errors.New("reinvested dividend must have a positive amount")
	}
	if !t.Price.IsPositive() {
		return t, errors.New("reinvestment price must be positive")
	}
	amount, err := fixCurrency(t.Amount, ledger)
	if err != nil {
		return t, fmt.Errorf("reinvest transaction: %w", err)
	}
	t.Amount = amount
	t.Price = M(t.Price.value, amount.Currency())
	return t, nil
}

// --- Split Command ---

// Split represents a stock split event for a security, with ratio
// Numerator/Denominator (a 2-for-1 split is 2/1, a 1-for-10 reverse split
// is 1/10).
type Split struct {
	secCmd
	Numerator   int64 `json:"num"`
	Denominator int64 `json:"den"`
}

// NewSplit creates a new Split transaction.
func NewSplit(day Date, security string, num, den int64) Split {
	return Split{
		secCmd:      secCmd{baseCmd: baseCmd{Command: CmdSplit, Date: day}, Security: security},
		Numerator:   num,
		Denominator: den,
	}
}

func (t Split) Equal(other Transaction) bool {
	o, ok := other.(Split)
	return ok && t.secCmd == o.secCmd && t.Numerator == o.Numerator && t.Denominator == o.Denominator
}

// Validate checks the Split transaction's fields.
func (t Split) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if t.Numerator <= 0 || t.Denominator <= 0 {
		return t, &InvalidSplitRatioError{Security: t.Security, Date: t.Date, Numerator: t.Numerator, Denominator: t.Denominator}
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Split.
func (t Split) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("num", t.Numerator)
	w.Append("den", t.Denominator)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Split.
func (t *Split) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		Numerator   int64 `json:"num"`
		Denominator int64 `json:"den"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Denominator == 0 {
		// Default to 1 if not present.
		temp.Denominator = 1
	}
	t.secCmd = temp.secCmd
	t.Numerator = temp.Numerator
	t.Denominator = temp.Denominator
	return nil
}
