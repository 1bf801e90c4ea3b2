package slip

import (
	"regexp"
	"strings"
)

// Method selects how a rule produces its value.
type Method string

const (
	// MethodFixed assigns the rule's Value verbatim when its identifier text
	// appears in the slip.
	MethodFixed Method = "fixed"
	// MethodPattern extracts the value with the rule's regular expression.
	MethodPattern Method = "pattern"
)

// ParseMethod maps an external method name to a Method, tolerating the
// spellings operators have used in the rules table.
func ParseMethod(name string) (Method, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fixed", "fixed_value", "value":
		return MethodFixed, true
	case "pattern", "regex", "regexp":
		return MethodPattern, true
	}
	return "", false
}

// Rule is one operator-configured extraction instruction. Rules are applied
// in the order supplied; the first rule that activates for a still-empty
// field wins and later rules for that field are skipped.
type Rule struct {
	Identifier string // substring whose presence activates the rule
	Field      Field  // which Record field the rule fills
	Method     Method
	Pattern    string // regular expression, when Method is MethodPattern
	Value      string // literal to assign, when Method is MethodFixed
}

// applyRules fills fields the generic extractors left at the sentinel.
// A malformed rule never stops the walk; it is skipped.
func applyRules(rec *Record, text string, rules []Rule, opts Options) {
	for _, rule := range rules {
		if rec.filled(rule.Field) {
			continue
		}
		switch rule.Method {
		case MethodFixed:
			if rule.Identifier == "" || !strings.Contains(text, rule.Identifier) {
				continue
			}
			if rule.Value == "" {
				continue
			}
			rec.set(rule.Field, rule.Value)
		case MethodPattern:
			if opts.PatternNeedsIdentifier && rule.Identifier != "" && !strings.Contains(text, rule.Identifier) {
				continue
			}
			if v, ok := matchPattern(text, rule.Pattern); ok {
				rec.set(rule.Field, v)
			}
		}
	}
}

// matchPattern runs a rule pattern in dot-matches-newline mode so rules can
// span OCR line breaks. The first capturing group is used when present,
// otherwise the whole match. A pattern that fails to compile disables only
// that rule.
func matchPattern(text, pattern string) (string, bool) {
	if pattern == "" {
		return "", false
	}
	re, err := regexp.Compile(`(?s)` + pattern)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := m[0]
	if len(m) > 1 {
		v = m[1]
	}
	v = collapseSpaces(v)
	if v == "" {
		return "", false
	}
	return v, true
}
