package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
)

// GainsMarkdown renders realized and unrealized gains per security, one
// column group per lot matching method, so the methods can be compared
// side by side.
func GainsMarkdown(on portfolio.Date, byMethod map[portfolio.MatchingMethod][]portfolio.SecurityResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report on %s\n\n", on)

	methods := portfolio.Methods()
	fmt.Fprint(&b, "| Security |")
	for _, method := range methods {
		fmt.Fprintf(&b, " Realized (%s) | Unrealized (%s) |", method, method)
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, "|:---|")
	for range methods {
		fmt.Fprint(&b, "---:|---:|")
	}
	fmt.Fprintln(&b)

	// The security set is the same for every method; take it from the first.
	for i := range byMethod[methods[0]] {
		ticker := byMethod[methods[0]][i].Security
		fmt.Fprintf(&b, "| %s |", ticker)
		for _, method := range methods {
			r := byMethod[method][i]
			if r.Err != nil || len(r.Series) == 0 {
				fmt.Fprint(&b, " n/a | n/a |")
				continue
			}
			m := r.Series[len(r.Series)-1]
			fmt.Fprintf(&b, " %s | %s |", m.RealisedPL.SignedString(), m.UnrealisedPL.SignedString())
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
