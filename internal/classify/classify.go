// Package classify maps free text onto catalog keys with ordered keyword
// rules. The first matching rule wins, so rule order is part of the contract:
// "diet protein bar" is a protein bar, not a diet cola.
package classify

import (
	"strings"

	"github.com/vbonduro/foodiq/internal/catalog"
)

type rule[K any] struct {
	key   K
	match func(lower string) bool
}

var productRules = []rule[catalog.ProductKey]{
	{catalog.ProductProteinBar, func(s string) bool {
		return contains(s, "protein", "sucralose") || (strings.Contains(s, "milk") && strings.Contains(s, "cocoa"))
	}},
	{catalog.ProductDietCola, func(s string) bool {
		return contains(s, "aspartame", "phosphoric acid", "diet", "cola", "carbonated water")
	}},
	{catalog.ProductInstantNoodles, func(s string) bool {
		return contains(s, "msg", "monosodium", "tbhq", "noodle", "ramen")
	}},
	{catalog.ProductKidsCereal, func(s string) bool {
		return contains(s, "red 40", "yellow 5", "blue 1", "cereal", "bht")
	}},
}

var followUpRules = []rule[catalog.FollowUpKey]{
	{catalog.FollowUpDaily, func(s string) bool {
		return contains(s, "daily", "every day", "regularly")
	}},
	{catalog.FollowUpKids, func(s string) bool {
		return contains(s, "kids", "children", "child")
	}},
	{catalog.FollowUpAlternatives, func(s string) bool {
		return contains(s, "alternative", "better", "instead", "healthier")
	}},
	{catalog.FollowUpSafety, func(s string) bool {
		return contains(s, "safe", "dangerous", "harmful")
	}},
}

// Product returns the catalog key for an ingredient list.
func Product(ingredients string) catalog.ProductKey {
	return first(productRules, ingredients, catalog.ProductDefault)
}

// FollowUp returns the catalog key for a follow-up question.
func FollowUp(question string) catalog.FollowUpKey {
	return first(followUpRules, question, catalog.FollowUpDefault)
}

func first[K any](rules []rule[K], text string, fallback K) K {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.match(lower) {
			return r.key
		}
	}
	return fallback
}

func contains(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
