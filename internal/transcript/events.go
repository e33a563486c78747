package transcript

// Wire schema for the agent CLI's stream-json output. Each line is one
// event tagged by "type". Only the fields the reducer consumes are
// declared; everything else on the wire is ignored by encoding/json.

type envelope struct {
	Type string `json:"type"`
}

type systemEvent struct {
	SessionID string `json:"session_id"`
}

type assistantEvent struct {
	Message messagePayload `json:"message"`
}

type messagePayload struct {
	Usage   usagePayload   `json:"usage"`
	Content []contentBlock `json:"content"`
}

type usagePayload struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadTokens     int64 `json:"cache_read_input_tokens"`
}

type contentBlock struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Text  string         `json:"text"`
	Input map[string]any `json:"input"`
}

type resultEvent struct {
	NumTurns      int64        `json:"num_turns"`
	DurationMS    int64        `json:"duration_ms"`
	DurationAPIMS int64        `json:"duration_api_ms"`
	TotalCostUSD  float64      `json:"total_cost_usd"`
	Usage         usagePayload `json:"usage"`
}
