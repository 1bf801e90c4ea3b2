package slip

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	labeledAmountRe = regexp.MustCompile(`(?i)(?:จำนวนเงิน|จำนวน|ยอดเงิน|amount)[\s:]*([\d,]+\.\d{2})`)
	unitAmountRe    = regexp.MustCompile(`(?i)([\d,]+\.\d{2})\s*(?:บาท|THB|฿)`)
	anyAmountRe     = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)
)

// extractAmount returns the transaction amount with two fraction digits.
// A labeled amount wins over a currency-suffixed one. Failing both, the
// largest two-decimal figure anywhere on the slip is taken: OCR noise and fee
// lines read smaller than the transaction total.
func extractAmount(text string) string {
	for _, re := range []*regexp.Regexp{labeledAmountRe, unitAmountRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parseMoney(m[1]); ok {
				return formatMoney(v)
			}
		}
	}

	best, found := 0.0, false
	for _, raw := range anyAmountRe.FindAllString(text, -1) {
		if v, ok := parseMoney(raw); ok && (!found || v > best) {
			best, found = v, true
		}
	}
	if !found {
		return NotAvailable
	}
	return formatMoney(best)
}

func parseMoney(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
