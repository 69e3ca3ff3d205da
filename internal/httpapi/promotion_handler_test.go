package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/promotion"
)

func TestListUsablePromotions_EmptyIsAnEmptyList(t *testing.T) {
	h := NewPromotionHandler(&MockPromotionService{}, time.Second)

	w := httptest.NewRecorder()
	h.ListUsable(w, authedRequest(http.MethodGet, "/api/v1/promotions", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"promotions":[]}`, w.Body.String())
}

func TestListUsablePromotions_ReturnsWallet(t *testing.T) {
	promos := &MockPromotionService{Promotions: []domain.Promotion{{PromotionID: 42, Percent: 10}}}
	h := NewPromotionHandler(promos, time.Second)

	w := httptest.NewRecorder()
	h.ListUsable(w, authedRequest(http.MethodGet, "/api/v1/promotions", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp promotionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Promotions, 1)
	assert.Equal(t, int64(42), resp.Promotions[0].PromotionID)
}

func TestClaimPromotion_OK(t *testing.T) {
	promos := &MockPromotionService{}
	h := NewPromotionHandler(promos, time.Second)

	w := httptest.NewRecorder()
	h.Claim(w, authedRequest(http.MethodPost, "/api/v1/promotions/claims", `{"promotion_id":42}`))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{42}, promos.Claimed)
}

func TestClaimPromotion_NotUsable(t *testing.T) {
	promos := &MockPromotionService{ClaimErr: promotion.ErrPromotionNotUsable}
	h := NewPromotionHandler(promos, time.Second)

	w := httptest.NewRecorder()
	h.Claim(w, authedRequest(http.MethodPost, "/api/v1/promotions/claims", `{"promotion_id":42}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "promotion_not_usable", resp.Code)
}
