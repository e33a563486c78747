package live

import (
	"fmt"

	"tokenbench/internal/runner"
)

// Reduce applies a run event to the UI state.
func Reduce(state State, event runner.RunEvent) State {
	state = applyRunEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// applyRunEvent updates the matching row, appending it when unseen.
func applyRunEvent(state State, event runner.RunEvent) State {
	index := -1
	for i, row := range state.Rows {
		if row.Task == event.Task && row.Mode == event.Mode &&
			row.Model == event.Model && row.Repetition == event.Repetition {
			index = i
			break
		}
	}
	if index < 0 {
		state.Rows = append(state.Rows, RunRow{
			Task:       event.Task,
			Mode:       event.Mode,
			Model:      event.Model,
			Repetition: event.Repetition,
			Status:     runner.RunQueued,
		})
		index = len(state.Rows) - 1
	}
	row := state.Rows[index]
	row.Status = event.Type
	switch event.Type {
	case runner.RunStarted:
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.RunCorrect, runner.RunIncorrect, runner.RunErrored:
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		row.NumTurns = event.NumTurns
		row.ContextTokens = event.ContextTokens
		row.CostUSD = event.CostUSD
		row.Reason = event.Reason
		row.Error = event.Error
	}
	state.Rows[index] = row
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status runner.RunEventType) bool {
	switch status {
	case runner.RunCorrect, runner.RunIncorrect, runner.RunErrored:
		return true
	default:
		return false
	}
}

// recount recomputes status counts for the current rows.
func recount(rows []RunRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case runner.RunQueued:
			counts.Queued++
		case runner.RunStarted:
			counts.Running++
		case runner.RunCorrect:
			counts.Done++
			counts.Correct++
		case runner.RunIncorrect:
			counts.Done++
			counts.Incorrect++
		case runner.RunErrored:
			counts.Done++
			counts.Errored++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.RunEvent) string {
	label := cellLabel(event)
	switch event.Type {
	case runner.RunStarted:
		return label + " started"
	case runner.RunCorrect:
		return label + " correct"
	case runner.RunIncorrect:
		if event.Reason != "" {
			return label + " incorrect (" + event.Reason + ")"
		}
		return label + " incorrect"
	case runner.RunErrored:
		if event.Error != "" {
			return label + " error: " + event.Error
		}
		return label + " error"
	}
	return ""
}

// cellLabel identifies a run cell in footer messages.
func cellLabel(event runner.RunEvent) string {
	return fmt.Sprintf("%s/%s/%s rep%d", event.Task, event.Mode, event.Model, event.Repetition)
}
