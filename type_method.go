package portfolio

import "fmt"

// MatchingMethod selects the order in which open lots are consumed by a sale.
// It is a per-calculation parameter, not per-lot state: the same transaction
// history replayed under a different method is fully deterministic.
type MatchingMethod int

const (
	// FIFO consumes the oldest lots first.
	FIFO MatchingMethod = iota
	// LIFO consumes the most recently opened lots first.
	LIFO
	// HIFO consumes the highest-cost lots first; lots of equal cost are
	// consumed oldest first.
	HIFO
)

func (m MatchingMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HIFO:
		return "hifo"
	default:
		return "unknown"
	}
}

// ParseMatchingMethod parses a string into a MatchingMethod.
func ParseMatchingMethod(s string) (MatchingMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "hifo":
		return HIFO, nil
	default:
		return 0, fmt.Errorf("unknown matching method: %q", s)
	}
}

// Methods lists all supported matching methods.
func Methods() []MatchingMethod { return []MatchingMethod{FIFO, LIFO, HIFO} }
