package models

// MergeOddsHistory prepends sample to history and truncates to the bounded
// window: newest first, at most OddsHistoryCap entries. A sample identical to
// the current head is dropped so that re-ingesting the same record cannot
// grow the history.
func MergeOddsHistory(history []OddsSample, sample OddsSample) []OddsSample {
	if len(history) > 0 {
		head := history[0]
		if head.Timestamp.Equal(sample.Timestamp) && head.Odds == sample.Odds {
			return history
		}
	}
	merged := make([]OddsSample, 0, len(history)+1)
	merged = append(merged, sample)
	merged = append(merged, history...)
	if len(merged) > OddsHistoryCap {
		merged = merged[:OddsHistoryCap]
	}
	return merged
}
