// Package renderer builds markdown reports from portfolio records. It makes
// layout decisions only; every figure comes from the engine records as-is.
package renderer

import (
	portfolio "github.com/calw20/BNB-Portfolio-Manager"
)

// signedPct renders a nullable percentage, "n/a" when undefined.
func signedPct(p *portfolio.Percent) string {
	if p == nil {
		return "n/a"
	}
	return p.SignedString()
}
