package models

// ImportResult summarizes one bulk import run. Success never exceeds Total.
type ImportResult struct {
	Success int      `json:"success"`
	Errors  []string `json:"errors"`
	Total   int      `json:"total"`
}

// DisplayErrors returns at most n errors for rendering. The full list stays
// on the result.
func (r *ImportResult) DisplayErrors(n int) []string {
	if r == nil || len(r.Errors) == 0 {
		return []string{}
	}
	if n <= 0 || len(r.Errors) <= n {
		return r.Errors
	}
	return r.Errors[:n]
}
