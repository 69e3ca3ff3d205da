package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

// BranchDirectory lists the chain's branches.
type BranchDirectory interface {
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

type BranchHandler struct {
	directory BranchDirectory
	sessions  session.Store
	timeout   time.Duration
}

func NewBranchHandler(directory BranchDirectory, sessions session.Store, timeout time.Duration) *BranchHandler {
	return &BranchHandler{directory: directory, sessions: sessions, timeout: timeout}
}

type branchSelectionResponse struct {
	Branches []domain.Branch `json:"branches"`
	Selected *domain.Branch  `json:"selected,omitempty"`
}

// ListBranches returns every branch together with the caller's current
// selection, if any.
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	branches, err := h.directory.ListBranches(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	selected, err := h.sessions.GetBranch(ctx, userID)
	if err != nil && !errors.Is(err, session.ErrNoBranchSelected) {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, branchSelectionResponse{Branches: branches, Selected: selected})
}

type selectBranchDTO struct {
	BranchID int64 `json:"branch_id"`
}

// SelectBranch stores the caller's branch choice. Availability and the
// cart view are scoped to it from then on.
func (h *BranchHandler) SelectBranch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req selectBranchDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	branches, err := h.directory.ListBranches(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	var match *domain.Branch
	for i := range branches {
		if branches[i].ID == req.BranchID {
			match = &branches[i]
			break
		}
	}
	if match == nil {
		respondError(w, http.StatusNotFound, "branch_not_found", "no branch with that id")
		return
	}

	if err := h.sessions.SetBranch(ctx, userID, *match); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, branchSelectionResponse{Branches: branches, Selected: match})
}
