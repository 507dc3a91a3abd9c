package portfolio

// AUD is a helper for tests to create australian dollar money from const.
func AUD(v float64) Money { return M(v, "AUD") }

// USD is a helper for tests to create usd money from const.
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for tests to create money with no currency set.
func NO(v float64) Money { return M(v, "") }
