package billing

// TripLine is the slice of a trip that billing aggregation needs.
type TripLine struct {
	TripRate float64
	Distance float64
}

// Summary holds the aggregate totals of a set of contract trips.
type Summary struct {
	Count         int
	TotalAmount   float64
	TotalDistance float64
	AvgDistance   float64
}

// Summarize aggregates trip lines into billing totals. An empty input
// yields a zero summary; the average guards against division by zero.
func Summarize(trips []TripLine) Summary {
	s := Summary{Count: len(trips)}
	for _, t := range trips {
		s.TotalAmount += t.TripRate
		s.TotalDistance += t.Distance
	}
	if s.Count > 0 {
		s.AvgDistance = s.TotalDistance / float64(s.Count)
	}
	return s
}
