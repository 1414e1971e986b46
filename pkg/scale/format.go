package scale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/chartcore/pkg/numeric"
)

var labelPrinter = message.NewPrinter(language.English)

// formatNumber rounds v to precision decimals and groups thousands.
func formatNumber(v float64, precision int) string {
	if !numeric.IsFinite(v) {
		return ""
	}
	v = numeric.Round(v, precision)
	return labelPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(min(precision, 20))))
}
