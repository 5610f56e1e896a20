package processor

// Stats counts results by outcome.
type Stats struct {
	Total     int `json:"total"`
	Unchanged int `json:"ok"`
	Rewritten int `json:"changed"`
	Skipped   int `json:"skipped"`
	Removed   int `json:"removed"`
	Errors    int `json:"errors"`
}

// Collect tallies results. Failed results count as errors, not as skipped.
func Collect(results []Result) Stats {
	s := Stats{Total: len(results)}
	for _, r := range results {
		if r.Failed() {
			s.Errors++
			continue
		}
		switch r.Outcome {
		case Unchanged:
			s.Unchanged++
		case Rewritten:
			s.Rewritten++
		case Skipped:
			s.Skipped++
		case Removed:
			s.Removed++
		}
	}
	return s
}

// ExitCode is 1 in verify mode when anything would change or failed, and in
// apply mode only when something failed.
func (s Stats) ExitCode(mode Mode) int {
	if s.Errors > 0 {
		return 1
	}
	if mode == ModeVerify && s.Rewritten+s.Removed > 0 {
		return 1
	}
	return 0
}
