package slip

import (
	"regexp"
	"strings"
)

// issuerParser pairs an issuer detector with the fallback tailored to that
// issuer's slip layout. Parsers are checked in order; the first detector that
// matches wins and the rest never run.
type issuerParser struct {
	detect func(text string) bool
	parse  func(rec *Record, text string)
}

var issuerParsers = []issuerParser{
	{detect: containsAny("K+", "กสิกรไทย"), parse: parseKBank},
	{detect: containsAny("SCB"), parse: parseSCB},
	{detect: containsAny("Bangkok Bank"), parse: parseBBL},
}

func containsAny(markers ...string) func(string) bool {
	return func(text string) bool {
		for _, m := range markers {
			if strings.Contains(text, m) {
				return true
			}
		}
		return false
	}
}

// applyIssuerFallback fills sender/recipient gaps using layout knowledge for
// the detected issuer. With no recognized issuer the fields stay at the
// sentinel.
func applyIssuerFallback(rec *Record, text string) {
	for _, p := range issuerParsers {
		if p.detect(text) {
			runFallback(rec, text, p.parse)
			return
		}
	}
}

// runFallback keeps a fallback that trips on unexpected text shapes from
// taking down the pipeline; fields it set before failing are kept.
func runFallback(rec *Record, text string, parse func(*Record, string)) {
	defer func() {
		_ = recover()
	}()
	parse(rec, text)
}

var (
	honorificLineRe = regexp.MustCompile(`(?:น\.ส\.|นาย)\s*([^\n]+)`)
	promptPayRe     = regexp.MustCompile(`Prompt\s*Pay\s*\n([^\n]+)`)
	fromLineRe      = regexp.MustCompile(`จาก\s*\n([^\n]+)`)
	toLineRe        = regexp.MustCompile(`ไปยัง\s*\n([^\n]+)`)
)

// parseKBank handles K+/wallet-style slips. The sender carries an honorific
// prefix; e-wallet brand names are checked as literals before falling back to
// the line under the PromptPay label.
func parseKBank(rec *Record, text string) {
	if !rec.filled(FieldAccount) {
		if m := honorificLineRe.FindStringSubmatch(text); m != nil {
			rec.set(FieldAccount, strings.TrimSpace(m[1]))
		}
	}
	if rec.filled(FieldRecipient) {
		return
	}
	switch {
	case strings.Contains(text, "TrueMoney Wallet"):
		rec.set(FieldRecipient, "TrueMoney Wallet")
	case strings.Contains(text, "ShopeePay") || strings.Contains(text, "รี Shopee"):
		rec.set(FieldRecipient, "ShopeePay")
	default:
		if m := promptPayRe.FindStringSubmatch(text); m != nil {
			rec.set(FieldRecipient, strings.TrimSpace(m[1]))
		}
	}
}

// parseSCB handles SCB slips: each party's name sits on the line after its
// direction keyword.
func parseSCB(rec *Record, text string) {
	if !rec.filled(FieldAccount) {
		if m := fromLineRe.FindStringSubmatch(text); m != nil {
			rec.set(FieldAccount, strings.TrimSpace(m[1]))
		}
	}
	if !rec.filled(FieldRecipient) {
		if m := toLineRe.FindStringSubmatch(text); m != nil {
			rec.set(FieldRecipient, strings.TrimSpace(m[1]))
		}
	}
}

// nameAt is one honorific-prefixed name occurrence and its text offset.
type nameAt struct {
	offset int
	value  string
}

// parseBBL handles Bangkok Bank slips, where both parties carry the same
// honorific prefix and OCR line breaks are unreliable. The sender is the name
// occurrence nearest after จาก; that occurrence is then removed from the pool
// before picking the name nearest after ไปที่. Without the removal a sender
// printed close to the ไปที่ keyword gets assigned to both roles.
//
// The heuristic assumes one sender and one recipient, each printed after its
// keyword; multi-party or reordered layouts may still misassign.
func parseBBL(rec *Record, text string) {
	fromIdx := strings.Index(text, "จาก")
	toIdx := strings.Index(text, "ไปที่")

	var names []nameAt
	for _, m := range honorificLineRe.FindAllStringSubmatchIndex(text, -1) {
		names = append(names, nameAt{offset: m[0], value: strings.TrimSpace(text[m[2]:m[3]])})
	}
	if len(names) == 0 {
		return
	}

	if i := nearestAfter(names, fromIdx); i >= 0 {
		if !rec.filled(FieldAccount) {
			rec.set(FieldAccount, names[i].value)
		}
		names = append(names[:i], names[i+1:]...)
	}
	if i := nearestAfter(names, toIdx); i >= 0 && !rec.filled(FieldRecipient) {
		rec.set(FieldRecipient, names[i].value)
	}
}

// nearestAfter returns the index of the name with the smallest positive
// offset distance after keyword position kw, or -1.
func nearestAfter(names []nameAt, kw int) int {
	if kw < 0 {
		return -1
	}
	best, bestDist := -1, 0
	for i, n := range names {
		d := n.offset - kw
		if d <= 0 {
			continue
		}
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
