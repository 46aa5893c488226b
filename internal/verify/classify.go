package verify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/claimcheck/internal/model"
)

// leadingLabels are tried against the start of the reply, longest first,
// so "Partially Supported" is never read as "Supported".
var leadingLabels = []struct {
	label    string
	category model.Category
}{
	{"partially supported", model.CategoryPartiallySupported},
	{"insufficient evidence", model.CategoryInsufficientEvidence},
	{"contradicted", model.CategoryContradicted},
	{"supported", model.CategorySupported},
}

// keywordRules apply when the reply does not open with a label. They match
// lowercase substrings anywhere in the reply, and the first match wins.
var keywordRules = []struct {
	keywords []string
	category model.Category
}{
	{[]string{"contradicted", "false"}, model.CategoryContradicted},
	{[]string{"partially"}, model.CategoryPartiallySupported},
	{[]string{"insufficient"}, model.CategoryInsufficientEvidence},
}

// Classify maps a raw judge reply onto a verdict category.
//
// A reply that opens with a category label (markdown emphasis, headers and a
// "Verdict:" prefix are ignored) gets that category. Otherwise the first
// keyword rule found anywhere in the text decides, even inside a longer
// word such as "falsely", and a reply
// matching none is Supported.
func Classify(text string) model.Category {
	if category, ok := leadingCategory(text); ok {
		return category
	}

	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return model.CategorySupported
}

func leadingCategory(text string) (model.Category, bool) {
	const decoration = " \t\r\n*#_>`-"

	lead := strings.ToLower(strings.TrimLeft(text, decoration))
	if rest, ok := strings.CutPrefix(lead, "verdict"); ok {
		lead = strings.TrimLeft(rest, decoration+":")
	}

	for _, l := range leadingLabels {
		rest, ok := strings.CutPrefix(lead, l.label)
		if !ok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !unicode.IsLetter(r) {
			return l.category, true
		}
	}
	return "", false
}
