package domain

// TransactionsTotal is the cached per-user aggregate of transaction sums,
// partitioned by type. Invariant: it equals the SUM over the user's
// transaction records unless a guarded write transiently failed.
type TransactionsTotal struct {
	Incomes  float64 `json:"incomes"`
	Expenses float64 `json:"expenses"`
}
