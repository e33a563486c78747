package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"tokenbench/internal/config"
	"tokenbench/internal/metrics"
	"tokenbench/internal/report"
	"tokenbench/internal/spec"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig finds and loads the config, returning the harness root.
func loadConfig(configPath string) (spec.Config, string, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return spec.Config{}, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return spec.Config{}, "", err
	}
	return cfg, config.RootFromConfigPath(path), nil
}

// pricingFromConfig converts config rates into metric pricing.
func pricingFromConfig(cfg spec.Config) metrics.Pricing {
	return metrics.Pricing{
		CacheCreationPerMTok: cfg.Pricing.CacheCreationPerMTok,
		CacheReadPerMTok:     cfg.Pricing.CacheReadPerMTok,
		OutputPerMTok:        cfg.Pricing.OutputPerMTok,
		InputPerMTok:         cfg.Pricing.InputPerMTok,
	}
}

// classifierFromConfig builds a tool classifier from config rules.
func classifierFromConfig(cfg spec.Config) metrics.Classifier {
	rules := make([]metrics.CategoryRule, 0, len(cfg.Report.ToolCategories))
	for _, category := range cfg.Report.ToolCategories {
		rules = append(rules, metrics.CategoryRule{
			Name:       category.Name,
			Substrings: category.Substrings,
		})
	}
	return metrics.NewClassifier(rules)
}

// reportOptions assembles render options from config.
func reportOptions(cfg spec.Config) report.Options {
	return report.Options{
		BaselineMode:  cfg.Report.BaselineMode,
		CandidateMode: cfg.Report.CandidateMode,
		Pricing:       pricingFromConfig(cfg),
		Classifier:    classifierFromConfig(cfg),
	}
}
