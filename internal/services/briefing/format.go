package briefing

import "fmt"

// signedPct formats a percentage with two decimals and an explicit "+" for non-negative values.
func signedPct(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}
