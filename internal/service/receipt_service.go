// Package service implements the HTTP surface of the receipt points API.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pointable/receipts/internal/models"
	"github.com/pointable/receipts/internal/points"
	"github.com/pointable/receipts/internal/storage"
)

// ReceiptService handles receipt submission and points lookup.
type ReceiptService struct {
	store storage.Store
}

// NewReceiptService creates a new ReceiptService with the given storage backend.
func NewReceiptService(store storage.Store) *ReceiptService {
	return &ReceiptService{store: store}
}

// Register mounts the service routes on mux.
func (s *ReceiptService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /receipts/process", s.processReceipt)
	mux.HandleFunc("GET /receipts/{id}/points", s.getPoints)
}

// processRequest is the wire shape of a receipt submission. Fields are
// pointers so that absent keys are distinguishable from zero values and the
// decode fails closed.
type processRequest struct {
	Retailer     *string        `json:"retailer"`
	PurchaseDate *string        `json:"purchaseDate"`
	PurchaseTime *string        `json:"purchaseTime"`
	Total        *string        `json:"total"`
	Items        *[]itemPayload `json:"items"`
}

type itemPayload struct {
	ShortDescription *string `json:"shortDescription"`
	Price            *string `json:"price"`
}

// processReceipt validates a submitted receipt, scores it, persists it and
// returns the generated identifier. Validation runs in full before anything
// touches the store, so a rejected submission leaves no state behind.
func (s *ReceiptService) processReceipt(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("processReceipt: undecodable body", "error", err)
		writeValidationError(w, errInvalidBody)
		return
	}

	receipt, verr := buildReceipt(&req)
	if verr != nil {
		slog.Warn("processReceipt: validation failed", "reason", verr.Error())
		writeValidationError(w, verr)
		return
	}

	receipt.Points = points.Calculate(receipt)

	if err := s.store.CreateReceipt(r.Context(), receipt); err != nil {
		slog.Error("processReceipt: store failed", "error", err)
		http.Error(w, "failed to store receipt", http.StatusInternalServerError)
		return
	}
	receiptsProcessed.Inc()

	slog.Info("Receipt processed",
		"receipt_id", receipt.ID,
		"retailer", receipt.Retailer,
		"items", len(receipt.Items),
		"points", receipt.Points,
	)
	writeJSON(w, http.StatusOK, map[string]string{"id": receipt.ID})
}

// getPoints returns the points stored for a receipt. Points were fixed at
// submission time; nothing is recomputed here.
func (s *ReceiptService) getPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		// Malformed identifiers cannot match a stored receipt; skip the
		// store round-trip.
		http.Error(w, "receipt not found", http.StatusNotFound)
		return
	}

	receipt, err := s.store.GetReceipt(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "receipt not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("getPoints: store failed", "receipt_id", id, "error", err)
		http.Error(w, "failed to load receipt", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"points": receipt.Points})
}

// buildReceipt turns a decoded payload into a domain receipt, or reports the
// first validation failure. Field order matches the wire contract: missing
// fields are reported before malformed ones.
func buildReceipt(req *processRequest) (*models.Receipt, *ValidationError) {
	switch {
	case req.Retailer == nil:
		return nil, errMissingField("retailer")
	case req.PurchaseDate == nil:
		return nil, errMissingField("purchaseDate")
	case req.PurchaseTime == nil:
		return nil, errMissingField("purchaseTime")
	case req.Total == nil:
		return nil, errMissingField("total")
	case req.Items == nil:
		return nil, errMissingField("items")
	}

	retailer := *req.Retailer
	if retailer == "" || len(retailer) > models.MaxRetailerLen {
		return nil, errMalformedField("retailer")
	}

	purchaseDate, err := time.Parse(models.DateLayout, *req.PurchaseDate)
	if err != nil {
		return nil, errMalformedField("purchaseDate")
	}
	purchaseTime, err := time.Parse(models.TimeLayout, *req.PurchaseTime)
	if err != nil {
		return nil, errMalformedField("purchaseTime")
	}
	total, err := parseMoney(*req.Total)
	if err != nil {
		return nil, errMalformedField("total")
	}

	// An empty items array is valid: the pair rule contributes nothing and
	// the description rule has nothing to score.
	items := make([]models.Item, 0, len(*req.Items))
	for _, payload := range *req.Items {
		if payload.ShortDescription == nil || payload.Price == nil {
			return nil, errInvalidItem
		}
		desc := *payload.ShortDescription
		if strings.TrimSpace(desc) == "" {
			return nil, errInvalidItem
		}
		price, err := parseMoney(*payload.Price)
		if err != nil {
			return nil, errInvalidItem
		}
		items = append(items, models.Item{ShortDescription: desc, Price: price})
	}

	return &models.Receipt{
		Retailer:     retailer,
		PurchaseDate: purchaseDate,
		PurchaseTime: purchaseTime,
		Total:        total,
		Items:        items,
	}, nil
}

// parseMoney parses a decimal money string. Amounts must be non-negative
// with at most two fractional digits.
func parseMoney(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative amount")
	}
	if d.Exponent() < -2 {
		return decimal.Decimal{}, errors.New("more than two fractional digits")
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
