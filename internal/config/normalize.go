package config

import "tokenbench/internal/spec"

// Published Anthropic rates in USD per million tokens, used when the
// config leaves pricing unset.
var defaultPricing = spec.PricingConfig{
	CacheCreationPerMTok: 3.75,
	CacheReadPerMTok:     0.30,
	OutputPerMTok:        15.00,
	InputPerMTok:         3.00,
}

var defaultForbiddenStrings = []string{
	"I cannot",
	"I don't have access",
	"no such file",
}

var defaultToolCategories = []spec.ToolCategory{
	{Name: "read", Substrings: []string{"read"}},
	{Name: "search", Substrings: []string{"search"}},
	{Name: "grep", Substrings: []string{"grep"}},
	{Name: "discovery", Substrings: []string{"glob", "ls", "list", "map", "outline"}},
}

// Normalize fills defaults the config may omit.
func Normalize(cfg *spec.Config) {
	if cfg.Defaults.Model == "" && len(cfg.Models) == 1 {
		cfg.Defaults.Model = cfg.Models[0].ID
	}
	if cfg.Defaults.Reps <= 0 {
		cfg.Defaults.Reps = 5
	}
	if cfg.Defaults.BudgetUSD <= 0 {
		cfg.Defaults.BudgetUSD = 1.0
	}
	if cfg.Defaults.TimeoutSeconds <= 0 {
		cfg.Defaults.TimeoutSeconds = 300
	}
	if cfg.Harness.FixturesDir == "" {
		cfg.Harness.FixturesDir = "fixtures"
	}
	if cfg.Harness.ResultsDir == "" {
		cfg.Harness.ResultsDir = DefaultResultsDir
	}
	if cfg.Pricing == (spec.PricingConfig{}) {
		cfg.Pricing = defaultPricing
	}
	if cfg.Report.BaselineMode == "" {
		cfg.Report.BaselineMode = "baseline"
	}
	if cfg.Report.CandidateMode == "" {
		cfg.Report.CandidateMode = "candidate"
	}
	if len(cfg.Report.ToolCategories) == 0 {
		cfg.Report.ToolCategories = append([]spec.ToolCategory(nil), defaultToolCategories...)
	}
	for i := range cfg.Tasks {
		if cfg.Tasks[i].Type == "" {
			cfg.Tasks[i].Type = "read"
		}
		if len(cfg.Tasks[i].Expect.ForbiddenStrings) == 0 {
			cfg.Tasks[i].Expect.ForbiddenStrings = append([]string(nil), defaultForbiddenStrings...)
		}
	}
}
