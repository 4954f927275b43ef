package portfolio

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatCNY renders a local-currency amount with digit grouping and no
// decimals.
func FormatCNY(v float64) string {
	if v < 0 {
		return "-¥" + humanize.CommafWithDigits(math.Abs(v), 0)
	}
	return "¥" + humanize.CommafWithDigits(v, 0)
}

// FormatCompactCNY abbreviates thousands and millions for tight layouts
// like the widget card title.
func FormatCompactCNY(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s¥%.2fM", sign, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s¥%.2fK", sign, abs/1_000)
	default:
		return sign + "¥" + humanize.CommafWithDigits(abs, 0)
	}
}
