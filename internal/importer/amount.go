package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
)

// amountPrefix matches currency glyphs and signs ahead of the first digit.
var amountPrefix = regexp.MustCompile(`^[^0-9.]*`)

var currencyGlyphs = map[string]string{
	"¥":   "CNY",
	"￥":   "CNY",
	"RMB": "CNY",
	"CNY": "CNY",
	"$":   "USD",
	"US$": "USD",
	"HK$": "HKD",
	"€":   "EUR",
	"£":   "GBP",
}

// ParseAmount parses a raw amount such as "¥1,234.50" into its magnitude and
// the currency its prefix names. Amounts without a known prefix are in
// model.DefaultCurrency.
func ParseAmount(s string) (decimal.Decimal, string, error) {
	s = strings.TrimSpace(s)
	prefix := amountPrefix.FindString(s)
	number := strings.ReplaceAll(s[len(prefix):], ",", "")

	d, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: unsupported amount %q", common.ErrFormat, s)
	}

	currency := model.DefaultCurrency
	glyph := strings.Trim(prefix, "+- ")
	if code, ok := currencyGlyphs[glyph]; ok {
		currency = code
	}
	return d.Abs(), currency, nil
}

// FormatDate parses s with the first matching layout and renders it in
// model.DateFormat.
func FormatDate(s string, layouts []string) (string, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(model.DateFormat), nil
		}
	}
	return "", fmt.Errorf("%w: unsupported date %q", common.ErrFormat, s)
}
