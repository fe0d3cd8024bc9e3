package models

// Branch groups fields under one physical location.
type Branch struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Field is a bookable facility. Immutable once created as far as the
// booking flow is concerned.
type Field struct {
	ID       string  `json:"id"`
	BranchID string  `json:"branchId"`
	Name     string  `json:"name"`
	Branch   *Branch `json:"branch,omitempty"`
}
