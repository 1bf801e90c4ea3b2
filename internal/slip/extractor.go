// Package slip extracts structured transaction records from the noisy OCR
// text of Thai bank and e-wallet payment slips.
//
// Extraction is a fixed pipeline: bank-agnostic field extractors run first,
// then operator-configured rules, then issuer-specific layout fallbacks, then
// a cleanup pass. Later stages only fill gaps; nothing overwrites a value an
// earlier stage found. The extractor is pure and total: any input string
// yields a Record, worst case with every field at the NotAvailable sentinel.
package slip

// Options tune extraction behavior.
type Options struct {
	// PatternNeedsIdentifier additionally requires a pattern rule's
	// identifier text to appear in the slip before the rule may fire. By
	// default a matching pattern alone activates the rule.
	PatternNeedsIdentifier bool
}

// Extract parses raw OCR text into a Record using default options. The rule
// list may be empty or nil; it is read in supplied order and never mutated.
func Extract(text string, rules []Rule) Record {
	return ExtractWithOptions(text, rules, Options{})
}

// ExtractWithOptions is Extract with explicit Options.
func ExtractWithOptions(text string, rules []Rule, opts Options) Record {
	rec := Record{
		Date:   extractDate(text),
		Amount: extractAmount(text),
		RefID:  extractRefID(text),
	}

	applyRules(&rec, text, rules, opts)

	if !rec.filled(FieldAccount) || !rec.filled(FieldRecipient) {
		applyIssuerFallback(&rec, text)
	}

	rec.Normalize()
	return rec
}
