package metrics

// RepoSynthetic is the repo label for runs against generated fixtures.
const RepoSynthetic = "synthetic"

// ToolSequenceEntry is one step of the compacted tool trace kept on a
// record for qualitative inspection.
type ToolSequenceEntry struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// RunRecord is one line of the persisted results log: the reduction of a
// single agent session plus the labels the driver attached to it.
// Records are appended once and never mutated.
type RunRecord struct {
	Task              string  `json:"task"`
	Repo              string  `json:"repo,omitempty"`
	Mode              string  `json:"mode"`
	Model             string  `json:"model"`
	Repetition        int     `json:"repetition"`
	SessionID         string  `json:"session_id,omitempty"`
	NumTurns          int64   `json:"num_turns"`
	NumToolCalls      int64   `json:"num_tool_calls"`
	ToolCalls         map[string]int `json:"tool_calls,omitempty"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	DurationMS        int64   `json:"duration_ms"`
	DurationAPIMS     int64   `json:"duration_api_ms,omitempty"`
	ContextTokens     int64   `json:"context_tokens"`
	OutputTokens      int64   `json:"output_tokens"`
	InputTokens       int64   `json:"input_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens   int64   `json:"cache_read_tokens"`
	PerTurnContextTokens []int64 `json:"per_turn_context_tokens,omitempty"`
	Correct           bool    `json:"correct"`
	CorrectnessReason string  `json:"correctness_reason,omitempty"`
	ResultText        string  `json:"result_text,omitempty"`
	ToolSequence      []ToolSequenceEntry `json:"tool_sequence,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// Valid reports whether the record carries metrics. Error-marked records
// are counted but never aggregated.
func (r RunRecord) Valid() bool {
	return r.Error == ""
}

// RepoLabel returns the repo name, defaulting to the synthetic sentinel.
func (r RunRecord) RepoLabel() string {
	if r.Repo == "" {
		return RepoSynthetic
	}
	return r.Repo
}

// Label returns the value of a grouping label by name.
func (r RunRecord) Label(name string) string {
	switch name {
	case "task":
		return r.Task
	case "mode":
		return r.Mode
	case "model":
		return r.Model
	case "repo":
		return r.RepoLabel()
	default:
		return ""
	}
}

// Metric returns a numeric field by its log key.
func (r RunRecord) Metric(key string) float64 {
	switch key {
	case "num_turns":
		return float64(r.NumTurns)
	case "num_tool_calls":
		return float64(r.NumToolCalls)
	case "total_cost_usd":
		return r.TotalCostUSD
	case "duration_ms":
		return float64(r.DurationMS)
	case "duration_api_ms":
		return float64(r.DurationAPIMS)
	case "context_tokens":
		return float64(r.ContextTokens)
	case "output_tokens":
		return float64(r.OutputTokens)
	case "input_tokens":
		return float64(r.InputTokens)
	case "cache_creation_tokens":
		return float64(r.CacheCreationTokens)
	case "cache_read_tokens":
		return float64(r.CacheReadTokens)
	default:
		return 0
	}
}
