package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/b2b"
)

// B2BService accepts and lists large-quantity purchase requests.
type B2BService interface {
	Submit(ctx context.Context, req *b2b.Request) error
	History(ctx context.Context, userID int64) ([]b2b.Request, error)
}

type B2BHandler struct {
	requests B2BService
	timeout  time.Duration
}

func NewB2BHandler(requests B2BService, timeout time.Duration) *B2BHandler {
	return &B2BHandler{requests: requests, timeout: timeout}
}

type b2bRequestDTO struct {
	ProductTypeID int64  `json:"product_type_id"`
	Quantity      int    `json:"quantity"`
	CompanyName   string `json:"company_name"`
	ContactName   string `json:"contact_name"`
	ContactPhone  string `json:"contact_phone"`
	ContactEmail  string `json:"contact_email"`
	Note          string `json:"note"`
}

// SubmitRequest files a sales-contact request for a quantity self-service
// checkout refuses.
func (h *B2BHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var dto b2bRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if dto.ProductTypeID == 0 || dto.ContactPhone == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_type_id and contact_phone are required")
		return
	}

	req := &b2b.Request{
		UserID:        userID,
		ProductTypeID: dto.ProductTypeID,
		Quantity:      dto.Quantity,
		CompanyName:   dto.CompanyName,
		ContactName:   dto.ContactName,
		ContactPhone:  dto.ContactPhone,
		ContactEmail:  dto.ContactEmail,
		Note:          dto.Note,
		Status:        b2b.RequestPending,
	}
	if err := h.requests.Submit(ctx, req); err != nil {
		if errors.Is(err, b2b.ErrQuantityTooSmall) {
			respondError(w, http.StatusUnprocessableEntity, "below_threshold", "quantity can be ordered through normal checkout")
			return
		}
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

type b2bHistoryResponse struct {
	Requests []b2b.Request `json:"requests"`
}

func (h *B2BHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	requests, err := h.requests.History(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []b2b.Request{}
	}
	respondJSON(w, http.StatusOK, b2bHistoryResponse{Requests: requests})
}
