package application

import (
	"log"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
)

// TotalsReconciler is the self-healing backstop for the cached totals: it
// recomputes every user's aggregate from the transaction records and repairs
// rows that drifted, e.g. after manual data edits outside the guarded write
// path.
type TotalsReconciler struct {
	repo domain.TransactionRepository
}

func NewTotalsReconciler(repo domain.TransactionRepository) *TotalsReconciler {
	return &TotalsReconciler{repo: repo}
}

func (r *TotalsReconciler) Run() {
	repaired, err := r.repo.RecomputeAllTotals()
	if err != nil {
		log.Printf("Error during totals reconciliation: %v", err)
		return
	}
	if repaired > 0 {
		log.Printf("Totals reconciliation repaired %d drifted user(s)", repaired)
	}
}
