// Package stock classifies rendered product-page text into a closed set of
// stock-availability states using an ordered rule table.
package stock

import "strings"

// rule is one entry of the classification table. A rule matches when at
// least one phrase of anyOf is present (or anyOf is empty), every phrase of
// allOf is present, and no phrase of noneOf is present. All matching is
// case-insensitive substring matching against the lowercased page text.
type rule struct {
	name   string
	state  State
	anyOf  []string
	allOf  []string
	noneOf []string
}

func (r rule) matches(text string) bool {
	if len(r.anyOf) > 0 && !containsAny(text, r.anyOf) {
		return false
	}
	for _, phrase := range r.allOf {
		if !strings.Contains(text, phrase) {
			return false
		}
	}
	for _, phrase := range r.noneOf {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	return true
}

// blockPhrases short-circuit classification entirely: an anti-bot challenge
// page carries no stock information.
var blockPhrases = []string{
	"cloudflare",
	"verify you are human",
}

// rules is evaluated top to bottom; the first match wins. Status phrases
// overlap in rendered page text (marketing copy repeats them in unrelated
// contexts), so the order runs most-specific-first to avoid false
// "available" positives. Rule order is a deliberate policy; reorder with
// care and keep classifier_test.go in step.
var rules = []rule{
	{
		name:  "retired",
		state: StateRetired,
		anyOf: []string{"retired", "no longer available"},
	},
	{
		name:   "coming-soon",
		state:  StateComingSoon,
		anyOf:  []string{"coming soon"},
		noneOf: []string{"add to bag"},
	},
	{
		name:  "sold-out",
		state: StateSoldOut,
		anyOf: []string{"sold out"},
	},
	{
		name:  "temporarily-out",
		state: StateTempOut,
		anyOf: []string{"temporarily out of stock"},
	},
	{
		name:  "out-of-stock-notify",
		state: StateOutOfStock,
		allOf: []string{"out of stock", "notify me"},
	},
	{
		name:  "pre-order",
		state: StatePreOrder,
		anyOf: []string{"pre-order this item", "pre-order today"},
	},
	{
		name:  "pre-order-ships",
		state: StatePreOrder,
		allOf: []string{"pre-order", "will ship"},
	},
	{
		name:  "backorder",
		state: StateBackorder,
		anyOf: []string{"backorder"},
	},
	{
		name:  "available",
		state: StateAvailable,
		anyOf: []string{"available now", "add to bag"},
	},
}

// Classify maps raw page text to a stock state. It is pure and total: for
// any input it returns exactly one state and never fails. The only
// normalization applied is lowercasing; the caller supplies visible text
// already extracted from the page.
func Classify(rawText string) State {
	text := strings.ToLower(rawText)

	if containsAny(text, blockPhrases) {
		return StateBlocked
	}

	for _, r := range rules {
		if r.matches(text) {
			return r.state
		}
	}

	return StateUnknown
}

// RuleNames returns the evaluation order of the rule table, for audit
// logging and tests.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
