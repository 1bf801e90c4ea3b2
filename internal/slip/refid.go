package slip

import "regexp"

var (
	labeledRefRe = regexp.MustCompile(`(?i)(?:เลขที่รายการ|เลขที่อ้างอิง|รหัสอ้างอิง|หมายเลขอ้างอิง|Ref(?:erence)?(?:\s*(?:No\.?|ID))?|Transaction\s*ID)\s*:?\s*([A-Za-z0-9]{15,})`)
	longTokenRe  = regexp.MustCompile(`[A-Za-z0-9]{20,}`)
)

// extractRefID finds the bank's transaction reference code. A labeled token
// of 15+ characters wins; otherwise the longest alphanumeric run of 20+
// characters is taken, since no other slip content reaches that length.
func extractRefID(text string) string {
	if m := labeledRefRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	longest := ""
	for _, tok := range longTokenRe.FindAllString(text, -1) {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	if longest == "" {
		return NotAvailable
	}
	return longest
}
