package metrics

import "strings"

// CategoryRule maps a category name to the substrings that identify it.
type CategoryRule struct {
	Name       string
	Substrings []string
}

// Classifier buckets tool names into categories by case-insensitive
// substring match. Tool name sets vary across agent configurations, so
// this is a heuristic over configurable rules, not an enum. First
// matching rule wins.
type Classifier struct {
	rules []CategoryRule
}

// NewClassifier builds a classifier from ordered rules.
func NewClassifier(rules []CategoryRule) Classifier {
	return Classifier{rules: append([]CategoryRule(nil), rules...)}
}

// Classify returns the category for a tool name, or "" when no rule
// matches.
func (c Classifier) Classify(toolName string) string {
	lower := strings.ToLower(toolName)
	for _, rule := range c.rules {
		for _, substring := range rule.Substrings {
			if strings.Contains(lower, strings.ToLower(substring)) {
				return rule.Name
			}
		}
	}
	return ""
}

// CategoryCounts rolls a per-tool tally up into per-category totals.
// Unmatched tools are dropped.
func (c Classifier) CategoryCounts(toolCounts map[string]float64) map[string]float64 {
	categories := make(map[string]float64)
	for name, count := range toolCounts {
		category := c.Classify(name)
		if category == "" {
			continue
		}
		categories[category] += count
	}
	return categories
}
