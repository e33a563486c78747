package transcript

import (
	"errors"
	"strings"
	"testing"
)

const sampleTranscript = `{"type":"system","session_id":"sess-1"}
{"type":"assistant","message":{"usage":{"input_tokens":100,"output_tokens":50,"cache_creation_input_tokens":0,"cache_read_input_tokens":0},"content":[{"type":"tool_use","id":"tu-1","name":"Read","input":{"file_path":"/src/main.rs"}}]}}

{"type":"result","num_turns":1,"duration_ms":4200,"duration_api_ms":3100,"total_cost_usd":0.002,"usage":{"input_tokens":100,"output_tokens":50,"cache_creation_input_tokens":0,"cache_read_input_tokens":0}}
`

func TestReduceSingleTurn(t *testing.T) {
	result, err := Reduce(sampleTranscript)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.SessionID != "sess-1" {
		t.Fatalf("unexpected session id: %q", result.SessionID)
	}
	if len(result.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(result.Turns))
	}
	if got := result.Turns[0].ContextTokens(); got != 100 {
		t.Fatalf("expected context tokens 100, got %d", got)
	}
	if result.NumTurns != 1 {
		t.Fatalf("expected num_turns 1, got %d", result.NumTurns)
	}
	if result.TotalCostUSD != 0.002 {
		t.Fatalf("expected cost passed through exactly, got %v", result.TotalCostUSD)
	}
	counts := result.ToolCallCounts()
	if counts["Read"] != 1 || len(counts) != 1 {
		t.Fatalf("unexpected tool counts: %v", counts)
	}
}

func TestReduceContextTokensIsDerived(t *testing.T) {
	turn := Turn{InputTokens: 7, CacheCreationTokens: 11, CacheReadTokens: 13}
	if got := turn.ContextTokens(); got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}
}

func TestReduceLastTextWins(t *testing.T) {
	raw := `{"type":"assistant","message":{"usage":{"input_tokens":1,"output_tokens":1},"content":[{"type":"text","text":"thinking about it"}]}}
{"type":"assistant","message":{"usage":{"input_tokens":1,"output_tokens":1},"content":[{"type":"text","text":"the answer"},{"type":"text","text":"with detail"}]}}
{"type":"assistant","message":{"usage":{"input_tokens":1,"output_tokens":1},"content":[{"type":"tool_use","id":"tu-9","name":"Grep","input":{}}]}}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.ResultText != "the answer\nwith detail" {
		t.Fatalf("unexpected result text: %q", result.ResultText)
	}
	if len(result.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(result.Turns))
	}
	for i, turn := range result.Turns {
		if turn.Index != i {
			t.Fatalf("turn %d has index %d", i, turn.Index)
		}
	}
}

func TestReduceMissingResultEventDegrades(t *testing.T) {
	raw := `{"type":"assistant","message":{"usage":{"input_tokens":5,"output_tokens":2},"content":[]}}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.NumTurns != 1 {
		t.Fatalf("expected fallback turn count 1, got %d", result.NumTurns)
	}
	if result.TotalCostUSD != 0 || result.DurationMS != 0 {
		t.Fatalf("expected zero-filled summary fields, got %+v", result)
	}
}

func TestReduceSummaryTurnCountIsAuthoritative(t *testing.T) {
	raw := `{"type":"assistant","message":{"usage":{"input_tokens":5,"output_tokens":2},"content":[]}}
{"type":"result","num_turns":4,"duration_ms":10,"total_cost_usd":0.01}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.NumTurns != 4 {
		t.Fatalf("expected summary count 4, got %d", result.NumTurns)
	}
	if len(result.Turns) != 1 {
		t.Fatalf("expected 1 reduced turn, got %d", len(result.Turns))
	}
}

func TestReduceLastResultEventWins(t *testing.T) {
	raw := `{"type":"result","num_turns":1,"total_cost_usd":0.5}
{"type":"result","num_turns":2,"total_cost_usd":0.7}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.TotalCostUSD != 0.7 || result.NumTurns != 2 {
		t.Fatalf("expected last result event to win, got %+v", result)
	}
}

func TestReduceIgnoresUserEvents(t *testing.T) {
	raw := `{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":"tu-1"}]}}
{"type":"assistant","message":{"usage":{"input_tokens":1,"output_tokens":1},"content":[]}}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if len(result.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(result.Turns))
	}
}

func TestReduceMalformedLineFails(t *testing.T) {
	_, err := Reduce("{\"type\":\"system\"}\nnot json\n")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 2 {
		t.Fatalf("expected line 2, got %d", parseErr.Line)
	}
}

func TestReduceUnknownTypeFails(t *testing.T) {
	_, err := Reduce(`{"type":"telemetry"}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Error(), "telemetry") {
		t.Fatalf("unexpected message: %v", parseErr)
	}
}

func TestReduceMissingTypeTagFails(t *testing.T) {
	_, err := Reduce(`{"session_id":"x"}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestPerTurnContextTokens(t *testing.T) {
	raw := `{"type":"assistant","message":{"usage":{"input_tokens":10,"cache_read_input_tokens":90},"content":[]}}
{"type":"assistant","message":{"usage":{"input_tokens":20,"cache_creation_input_tokens":30},"content":[]}}
`
	result, err := Reduce(raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	series := result.PerTurnContextTokens()
	if len(series) != 2 || series[0] != 100 || series[1] != 50 {
		t.Fatalf("unexpected series: %v", series)
	}
}

func TestReduceEmptyInput(t *testing.T) {
	result, err := Reduce("")
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.NumTurns != 0 || len(result.Turns) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
