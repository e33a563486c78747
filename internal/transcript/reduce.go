package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToolCall is one tool invocation made by the agent in a given turn.
type ToolCall struct {
	Name      string
	Input     map[string]any
	ToolUseID string
	TurnIndex int
}

// Turn is one assistant response cycle with its usage and tool calls.
type Turn struct {
	Index               int
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
	ToolCalls           []ToolCall
}

// ContextTokens is the total context processed this turn: fresh input
// plus cache writes and cache reads. Cache reads are cheaper but still
// occupy the context window.
func (t Turn) ContextTokens() int64 {
	return t.InputTokens + t.CacheCreationTokens + t.CacheReadTokens
}

// RunResult is the reduction of one full agent session.
type RunResult struct {
	SessionID                string
	Turns                    []Turn
	NumTurns                 int64
	DurationMS               int64
	DurationAPIMS            int64
	TotalCostUSD             float64
	TotalInputTokens         int64
	TotalOutputTokens        int64
	TotalCacheCreationTokens int64
	TotalCacheReadTokens     int64
	ResultText               string
}

// ParseError reports a transcript line that is not a well-formed event.
// It fails the whole reduction; callers record the run as errored.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("transcript line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reduce parses the newline-delimited stream-json output of one agent
// invocation into a RunResult. Blank lines are skipped. A line that is
// not JSON, lacks a type tag, or carries an unknown type fails the
// reduction. A missing terminal result event does not: its fields stay
// zero and the turn count falls back to the number of reduced turns.
func Reduce(raw string) (RunResult, error) {
	var result RunResult
	var summary *resultEvent
	lastText := ""
	turnIndex := 0

	for lineNo, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return RunResult{}, &ParseError{Line: lineNo + 1, Err: err}
		}
		switch env.Type {
		case "system":
			var event systemEvent
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				return RunResult{}, &ParseError{Line: lineNo + 1, Err: err}
			}
			if event.SessionID != "" {
				result.SessionID = event.SessionID
			}
		case "assistant":
			var event assistantEvent
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				return RunResult{}, &ParseError{Line: lineNo + 1, Err: err}
			}
			turn, texts := reduceMessage(event.Message, turnIndex)
			result.Turns = append(result.Turns, turn)
			turnIndex++
			if len(texts) > 0 {
				lastText = strings.Join(texts, "\n")
			}
		case "result":
			var event resultEvent
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				return RunResult{}, &ParseError{Line: lineNo + 1, Err: err}
			}
			// Last one wins if the stream is malformed enough to
			// carry more than one.
			summary = &event
		case "user":
			// Tool results echoed back to the model; nothing to reduce.
		case "":
			return RunResult{}, &ParseError{Line: lineNo + 1, Err: fmt.Errorf("event has no type tag")}
		default:
			return RunResult{}, &ParseError{Line: lineNo + 1, Err: fmt.Errorf("unknown event type %q", env.Type)}
		}
	}

	result.NumTurns = int64(len(result.Turns))
	if summary != nil {
		// The terminal summary is authoritative for turn count; the
		// agent's own accounting may include turns that never produced
		// an assistant message.
		if summary.NumTurns > 0 {
			result.NumTurns = summary.NumTurns
		}
		result.DurationMS = summary.DurationMS
		result.DurationAPIMS = summary.DurationAPIMS
		result.TotalCostUSD = summary.TotalCostUSD
		result.TotalInputTokens = summary.Usage.InputTokens
		result.TotalOutputTokens = summary.Usage.OutputTokens
		result.TotalCacheCreationTokens = summary.Usage.CacheCreationTokens
		result.TotalCacheReadTokens = summary.Usage.CacheReadTokens
	}
	result.ResultText = lastText
	return result, nil
}

// reduceMessage builds one Turn from an assistant message, returning the
// text blocks seen alongside it.
func reduceMessage(message messagePayload, turnIndex int) (Turn, []string) {
	turn := Turn{
		Index:               turnIndex,
		InputTokens:         message.Usage.InputTokens,
		OutputTokens:        message.Usage.OutputTokens,
		CacheCreationTokens: message.Usage.CacheCreationTokens,
		CacheReadTokens:     message.Usage.CacheReadTokens,
	}
	var texts []string
	for _, block := range message.Content {
		switch block.Type {
		case "tool_use":
			turn.ToolCalls = append(turn.ToolCalls, ToolCall{
				Name:      block.Name,
				Input:     block.Input,
				ToolUseID: block.ID,
				TurnIndex: turnIndex,
			})
		case "text":
			if block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
	}
	return turn, texts
}

// ToolCallCounts tallies tool invocations by name across all turns.
func (r RunResult) ToolCallCounts() map[string]int {
	counts := make(map[string]int)
	for _, turn := range r.Turns {
		for _, call := range turn.ToolCalls {
			counts[call.Name]++
		}
	}
	return counts
}

// PerTurnContextTokens returns the context-token series in turn order.
func (r RunResult) PerTurnContextTokens() []int64 {
	series := make([]int64, 0, len(r.Turns))
	for _, turn := range r.Turns {
		series = append(series, turn.ContextTokens())
	}
	return series
}
