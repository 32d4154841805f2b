package currency

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Base is the currency every stored amount is denominated in.
const Base = "USD"

type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Locale string `json:"locale"`

	// SymbolAfter places the symbol after the number; Spaced separates
	// symbol and number with a space.
	SymbolAfter bool `json:"-"`
	Spaced      bool `json:"-"`

	tag language.Tag
}

var supported = map[string]*Info{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Locale: "en-US"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Locale: "de-DE", SymbolAfter: true, Spaced: true},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Locale: "en-GB"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Locale: "ja-JP"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Locale: "en-CA"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Locale: "en-AU"},
	"CHF": {Code: "CHF", Symbol: "Fr", Name: "Swiss Franc", Locale: "de-CH", Spaced: true},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Locale: "zh-CN"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Locale: "hi-IN"},
	"BRL": {Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Locale: "pt-BR", Spaced: true},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African Rand", Locale: "en-ZA"},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Locale: "en-SG"},
	"MXN": {Code: "MXN", Symbol: "$", Name: "Mexican Peso", Locale: "es-MX"},
	"NGN": {Code: "NGN", Symbol: "₦", Name: "Nigerian Naira", Locale: "en-NG"},
	"KES": {Code: "KES", Symbol: "KSh", Name: "Kenyan Shilling", Locale: "en-KE"},
	"GHS": {Code: "GHS", Symbol: "₵", Name: "Ghanaian Cedi", Locale: "en-GH"},
}

func init() {
	for _, info := range supported {
		info.tag = language.Make(info.Locale)
	}
}

// Normalize upper-cases a currency code; empty means the base currency.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Base
	}
	return code
}

func Lookup(code string) (Info, bool) {
	info, ok := supported[Normalize(code)]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

func Supported(code string) bool {
	_, ok := supported[Normalize(code)]
	return ok
}

// All lists the supported currencies, base first, then by code.
func All() []Info {
	out := make([]Info, 0, len(supported))
	for _, info := range supported {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code == Base || out[j].Code == Base {
			return out[i].Code == Base
		}
		return out[i].Code < out[j].Code
	})
	return out
}
