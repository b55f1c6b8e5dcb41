package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceFormatter renders prices the way the storefront displays them: the
// currency symbol of the locale followed by the amount, grouped by the
// locale's rules (12,34,567.00 for en-IN, 1,234,567.00 for en-US).
type PriceFormatter struct {
	unit    currency.Unit
	scale   int
	printer *message.Printer
}

func NewPriceFormatter(code string, tag language.Tag) (*PriceFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &PriceFormatter{
		unit:    unit,
		scale:   scale,
		printer: message.NewPrinter(tag),
	}, nil
}

func (f *PriceFormatter) Currency() string {
	return f.unit.String()
}

// Format rounds half away from zero to the currency's scale before printing.
func (f *PriceFormatter) Format(amount float64) string {
	rounded, _ := decimal.NewFromFloat(amount).Round(int32(f.scale)).Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(rounded)))
}
