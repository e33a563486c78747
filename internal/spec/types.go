package spec

type Config struct {
	Version  int            `yaml:"version"`
	Harness  HarnessConfig  `yaml:"harness"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Models   []ModelConfig  `yaml:"models"`
	Modes    []ModeConfig   `yaml:"modes"`
	Repos    []RepoConfig   `yaml:"repos"`
	Tasks    []TaskConfig   `yaml:"tasks"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Report   ReportConfig   `yaml:"report"`
}

type HarnessConfig struct {
	FixturesDir  string `yaml:"fixtures_dir"`
	ResultsDir   string `yaml:"results_dir"`
	SystemPrompt string `yaml:"system_prompt"`
}

type DefaultsConfig struct {
	Model          string  `yaml:"model"`
	Reps           int     `yaml:"reps"`
	BudgetUSD      float64 `yaml:"budget_usd"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type ModelConfig struct {
	ID    string `yaml:"id"`
	APIID string `yaml:"api_id"`
}

type ModeConfig struct {
	ID          string   `yaml:"id"`
	Tools       []string `yaml:"tools"`
	MCPConfig   string   `yaml:"mcp_config"`
	Description string   `yaml:"description"`
}

type RepoConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Commit      string `yaml:"commit"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type TaskConfig struct {
	ID     string     `yaml:"id"`
	Repo   string     `yaml:"repo"`
	Type   string     `yaml:"type"`
	Prompt string     `yaml:"prompt"`
	Expect TaskExpect `yaml:"expect"`
}

// TaskExpect is the ground truth a run's final answer is checked against.
// File and DiffContains apply to edit tasks only.
type TaskExpect struct {
	RequiredStrings  []string `yaml:"required_strings"`
	ForbiddenStrings []string `yaml:"forbidden_strings"`
	File             string   `yaml:"file"`
	DiffContains     []string `yaml:"diff_contains"`
}

// PricingConfig holds USD-per-million-token rates by usage category.
type PricingConfig struct {
	CacheCreationPerMTok float64 `yaml:"cache_creation_per_mtok"`
	CacheReadPerMTok     float64 `yaml:"cache_read_per_mtok"`
	OutputPerMTok        float64 `yaml:"output_per_mtok"`
	InputPerMTok         float64 `yaml:"input_per_mtok"`
}

type ReportConfig struct {
	BaselineMode   string           `yaml:"baseline_mode"`
	CandidateMode  string           `yaml:"candidate_mode"`
	ToolCategories []ToolCategory   `yaml:"tool_categories"`
}

// ToolCategory groups tool names whose lowercase form contains any of the
// listed substrings.
type ToolCategory struct {
	Name       string   `yaml:"name"`
	Substrings []string `yaml:"substrings"`
}
