package interfaces

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type TransactionServiceInterface interface {
	CreateTransaction(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error)
	GetTransactionsByTypeAndDate(userID, transactionType, date string) ([]domain.Transaction, error)
	UpdateTransaction(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteTransaction(userID, transactionType, id string) (*domain.Transaction, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		log.Fatal("Service and response functions must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// respondServiceError maps the finance error taxonomy onto HTTP statuses:
// validation failures are 400, missing records 404, everything else a
// generic 500.
func (h *TransactionHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsNotFoundError(err):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Type         string   `json:"type"`
		CategoryName string   `json:"categoryName"`
		Sum          *float64 `json:"sum"`
		Comment      string   `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.CreateTransaction(userID, req.Type, req.CategoryName, req.Sum, req.Comment)
	if err != nil {
		h.respondServiceError(w, err, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) GetTransactionsByTypeAndDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionType := r.PathValue("type")
	date := r.URL.Query().Get("date")

	transactions, err := h.service.GetTransactionsByTypeAndDate(userID, transactionType, date)
	if err != nil {
		h.respondServiceError(w, err, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    transactions,
	})
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionType := r.PathValue("type")
	id := r.PathValue("id")

	var patch domain.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.UpdateTransaction(userID, transactionType, id, patch)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully updated.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionType := r.PathValue("type")
	id := r.PathValue("id")

	if _, err := h.service.DeleteTransaction(userID, transactionType, id); err != nil {
		h.respondServiceError(w, err, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
