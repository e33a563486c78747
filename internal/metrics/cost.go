package metrics

// Pricing holds USD-per-million-token rates. It is plain configuration:
// callers construct it from their config so tests can substitute rates
// without shared state.
type Pricing struct {
	CacheCreationPerMTok float64
	CacheReadPerMTok     float64
	OutputPerMTok        float64
	InputPerMTok         float64
}

// CostBreakdown is the per-category cost of one run.
type CostBreakdown struct {
	CacheCreationCost float64
	CacheReadCost     float64
	OutputCost        float64
	InputCost         float64
}

// Breakdown prices a record's token counts against a rate schedule.
func Breakdown(record RunRecord, pricing Pricing) CostBreakdown {
	const mtok = 1_000_000
	return CostBreakdown{
		CacheCreationCost: float64(record.CacheCreationTokens) * pricing.CacheCreationPerMTok / mtok,
		CacheReadCost:     float64(record.CacheReadTokens) * pricing.CacheReadPerMTok / mtok,
		OutputCost:        float64(record.OutputTokens) * pricing.OutputPerMTok / mtok,
		InputCost:         float64(record.InputTokens) * pricing.InputPerMTok / mtok,
	}
}
