package portfolio

import "fmt"

// OversellError reports a sell whose quantity exceeds the open position.
// The engine never corrects it silently: no lot is reduced below zero and the
// ledger must be fixed manually.
type OversellError struct {
	Security  string
	Date      Date
	Requested Quantity
	Available Quantity
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %v of %s, position is only %v",
		e.Date, e.Requested, e.Security, e.Available)
}

// OutOfOrderError reports a transaction dated before the last event already
// applied to its security's book. It is only returned by the sequential book;
// the Ledger itself re-sorts and replays on out-of-order arrival.
type OutOfOrderError struct {
	Security string
	Date     Date
	Last     Date
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("transaction for %s on %s arrives after events dated %s",
		e.Security, e.Date, e.Last)
}

// InvalidSplitRatioError reports a split with a non-positive ratio.
type InvalidSplitRatioError struct {
	Security    string
	Date        Date
	Numerator   int64
	Denominator int64
}

func (e *InvalidSplitRatioError) Error() string {
	return fmt.Sprintf("invalid split ratio %d/%d for %s on %s",
		e.Numerator, e.Denominator, e.Security, e.Date)
}
