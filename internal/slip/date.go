package slip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// thaiMonths maps the twelve Thai month abbreviations printed on slips to
// month numbers.
var thaiMonths = map[string]int{
	"ม.ค.": 1, "ก.พ.": 2, "มี.ค.": 3, "เม.ย.": 4, "พ.ค.": 5, "มิ.ย.": 6,
	"ก.ค.": 7, "ส.ค.": 8, "ก.ย.": 9, "ต.ค.": 10, "พ.ย.": 11, "ธ.ค.": 12,
}

var dateRe = regexp.MustCompile(`(\d{1,2})\s+(ม\.ค\.|ก\.พ\.|มี\.ค\.|เม\.ย\.|พ\.ค\.|มิ\.ย\.|ก\.ค\.|ส\.ค\.|ก\.ย\.|ต\.ค\.|พ\.ย\.|ธ\.ค\.)\s+(\d{2,4})`)

// extractDate finds the first "day thai-month year" occurrence in the text
// and returns it as YYYY-MM-DD. No attempt is made to disambiguate multiple
// date-like substrings.
func extractDate(text string) string {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return NotAvailable
	}
	return normalizeDate(m[1], m[2], m[3])
}

// normalizeDate converts slip date components to a Gregorian YYYY-MM-DD
// string. Two-digit years on Thai slips are Buddhist era.
func normalizeDate(dayStr, monthStr, yearStr string) string {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return NotAvailable
	}
	month, ok := thaiMonths[strings.TrimSpace(monthStr)]
	if !ok {
		return NotAvailable
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return NotAvailable
	}
	if year < 100 {
		year += 2500
	}
	if year > 2500 {
		year -= 543
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
