package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
)

func TestHandleMessage(t *testing.T) {
	t.Run("awards", func(t *testing.T) {
		svc := &mockProgression{}
		h := NewProgressionHandlers(svc)
		svc.On("AwardMessageXP", mock.Anything, progression.MessageXPRequest{UserID: "u1", Username: "alice"}).
			Return(&progression.MessageXPResult{Status: progression.StatusAwarded, XPGranted: 15}, nil)

		rec := httptest.NewRecorder()
		h.HandleMessage(rec, jsonRequest(t, http.MethodPost, "/progression/message", MessageRequest{UserID: "u1", Username: "alice"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[progression.MessageXPResult](t, rec)
		assert.Equal(t, progression.StatusAwarded, res.Status)
		assert.Equal(t, 15, res.XPGranted)
		svc.AssertExpectations(t)
	})

	t.Run("missing user id", func(t *testing.T) {
		svc := &mockProgression{}
		rec := httptest.NewRecorder()
		NewProgressionHandlers(svc).HandleMessage(rec, jsonRequest(t, http.MethodPost, "/progression/message", MessageRequest{}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[ValidationErrorResponse](t, rec)
		assert.Contains(t, resp.Fields, "user_id")
		svc.AssertNotCalled(t, "AwardMessageXP", mock.Anything, mock.Anything)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewProgressionHandlers(&mockProgression{}).HandleMessage(rec,
			jsonRequest(t, http.MethodPost, "/progression/message", `{"user_id":"u1","bonus":5}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrMsgInvalidRequest, decodeBody[ErrorResponse](t, rec).Error)
	})
}

func TestHandleVoice_RejectsZeroMinutes(t *testing.T) {
	rec := httptest.NewRecorder()
	NewProgressionHandlers(&mockProgression{}).HandleVoice(rec,
		jsonRequest(t, http.MethodPost, "/progression/voice", VoiceRequest{UserID: "u1", Minutes: 0}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrestige_TooLow(t *testing.T) {
	svc := &mockProgression{}
	svc.On("Prestige", mock.Anything, "u1", "").Return(nil, domain.ErrPrestigeLevelTooLow)

	rec := httptest.NewRecorder()
	NewProgressionHandlers(svc).HandlePrestige(rec, jsonRequest(t, http.MethodPost, "/progression/prestige", UserRequest{UserID: "u1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMsgPrestigeTooLowError, decodeBody[ErrorResponse](t, rec).Error)
}

func TestHandleGetAccount(t *testing.T) {
	svc := &mockProgression{}
	svc.On("GetAccount", mock.Anything, "u1").Return(&progression.AccountSnapshot{XPRequired: 200}, nil)
	svc.On("GetAccount", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)
	h := NewProgressionHandlers(svc)

	rec := httptest.NewRecorder()
	h.HandleGetAccount(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/progression/account/u1", nil), "userID", "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, decodeBody[progression.AccountSnapshot](t, rec).XPRequired)

	rec = httptest.NewRecorder()
	h.HandleGetAccount(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/progression/account/ghost", nil), "userID", "ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleLeaderboard(t *testing.T) {
	t.Run("default limit and empty list", func(t *testing.T) {
		svc := &mockProgression{}
		svc.On("Leaderboard", mock.Anything, progression.DefaultLeaderboardLimit).Return(nil, nil)

		rec := httptest.NewRecorder()
		NewProgressionHandlers(svc).HandleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/progression/leaderboard", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := &mockProgression{}
		svc.On("Leaderboard", mock.Anything, 3).Return([]domain.LeaderboardEntry{{UserID: "u1"}}, nil)

		rec := httptest.NewRecorder()
		NewProgressionHandlers(svc).HandleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/progression/leaderboard?limit=3", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[LeaderboardResponse](t, rec).Entries, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewProgressionHandlers(&mockProgression{}).HandleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/progression/leaderboard?limit=ten", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
