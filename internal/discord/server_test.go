package discord

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	embeds []*discordgo.MessageEmbed
	err    error
}

func (n *fakeNotifier) SendNotification(embed *discordgo.MessageEmbed) error {
	if n.err != nil {
		return n.err
	}
	n.embeds = append(n.embeds, embed)
	return nil
}

func newAnnounceServer(n Notifier) *HTTPServer {
	return &HTTPServer{notifier: n, apiKey: "secret"}
}

func announce(srv *HTTPServer, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/announce", strings.NewReader(body))
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rr := httptest.NewRecorder()
	srv.handleAnnounce(rr, req)
	return rr
}

func TestHandleAnnounce(t *testing.T) {
	t.Run("requires the API key", func(t *testing.T) {
		n := &fakeNotifier{}
		rr := announce(newAnnounceServer(n), "wrong", `{"title":"Hi"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, n.embeds)
	})

	t.Run("requires a title", func(t *testing.T) {
		rr := announce(newAnnounceServer(&fakeNotifier{}), "secret", `{"description":"no title"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("sends with the default color", func(t *testing.T) {
		n := &fakeNotifier{}
		rr := announce(newAnnounceServer(n), "secret", `{"title":"Double XP","description":"All weekend"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, n.embeds, 1)
		assert.Equal(t, "Double XP", n.embeds[0].Title)
		assert.Equal(t, defaultAnnounceColor, n.embeds[0].Color)
	})

	t.Run("discord failure", func(t *testing.T) {
		rr := announce(newAnnounceServer(&fakeNotifier{err: errors.New("missing access")}), "secret", `{"title":"Hi"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	tc := SetupTestContext(t)
	tc.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &HTTPServer{bot: newTestBot(tc, Config{})}

	rr := httptest.NewRecorder()
	srv.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "gateway not ready")
	assert.Contains(t, rr.Body.String(), `"status":"degraded"`)

	tc.Session.DataReady = true
	rr = httptest.NewRecorder()
	srv.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"api_reachable":true`)
}
