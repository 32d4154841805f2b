package currency

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var compactUnits = []struct {
	div    float64
	suffix string
}{
	{1e3, "K"},
	{1e6, "M"},
	{1e9, "B"},
	{1e12, "T"},
}

// Format renders value with the currency's symbol, locale separators and
// ISO minor units. Unknown codes render as the base currency.
func Format(value float64, code string) string {
	info := infoOrBase(code)
	p := message.NewPrinter(info.tag)
	scale := minorUnits(info.Code)
	pow := math.Pow10(scale)
	abs := math.Round(math.Abs(value)*pow) / pow
	num := p.Sprint(number.Decimal(abs, number.Scale(scale)))
	return affix(info, num, value < 0 && abs != 0)
}

// FormatCompact abbreviates magnitudes of a thousand and up to one
// fractional digit: 12345 -> $12.3K.
func FormatCompact(value float64, code string) string {
	info := infoOrBase(code)
	p := message.NewPrinter(info.tag)

	abs := math.Abs(value)
	scaled, suffix := math.Round(abs*10)/10, ""
	for _, u := range compactUnits {
		if scaled < 1000 {
			break
		}
		scaled, suffix = math.Round(abs/u.div*10)/10, u.suffix
	}

	num := p.Sprint(number.Decimal(scaled, number.MaxFractionDigits(1))) + suffix
	return affix(info, num, value < 0 && scaled != 0)
}

func infoOrBase(code string) *Info {
	if info, ok := supported[Normalize(code)]; ok {
		return info
	}
	return supported[Base]
}

func minorUnits(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

func affix(info *Info, num string, negative bool) string {
	sep := ""
	if info.Spaced || info.SymbolAfter {
		sep = " "
	}
	out := info.Symbol + sep + num
	if info.SymbolAfter {
		out = num + sep + info.Symbol
	}
	if negative {
		out = "-" + out
	}
	return out
}
