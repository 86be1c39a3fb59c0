package types

// Progress is derived per learner and course, never persisted.
// Invariant: 0 <= CompletedCount <= TotalCount.
type Progress struct {
	CompletedCount int `json:"completed_count"`
	TotalCount     int `json:"total_count"`
}
