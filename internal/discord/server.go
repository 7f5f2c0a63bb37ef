package discord

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	httpShutdownTimeout  = 5 * time.Second
	httpHeaderTimeout    = 5 * time.Second
	defaultAnnounceColor = ColorSuccess
)

// Notifier posts embeds to the bot's notification channel
type Notifier interface {
	SendNotification(embed *discordgo.MessageEmbed) error
}

// HTTPServer handles internal HTTP requests
type HTTPServer struct {
	server   *http.Server
	bot      *Bot
	notifier Notifier
	apiKey   string
}

// NewHTTPServer creates the internal server. Announcements need the
// same API key the economy API uses.
func NewHTTPServer(port, apiKey string, bot *Bot) *HTTPServer {
	mux := http.NewServeMux()

	srv := &HTTPServer{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: httpHeaderTimeout,
		},
		bot:      bot,
		notifier: bot,
		apiKey:   apiKey,
	}

	mux.HandleFunc("GET /health", srv.HandleHealth)
	mux.HandleFunc("POST /admin/announce", srv.handleAnnounce)
	return srv
}

// Start starts the HTTP server
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("Starting Discord internal HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Discord internal HTTP server failed", "error", err)
		}
	}()
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Discord internal HTTP server shutdown failed", "error", err)
	}
}

type AnnounceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

func (s *HTTPServer) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" || r.Header.Get("X-API-Key") != s.apiKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AnnounceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Color == 0 {
		req.Color = defaultAnnounceColor
	}

	embed := createEmbed(req.Title, req.Description, req.Color, "")
	embed.Timestamp = time.Now().Format(time.RFC3339)

	if err := s.notifier.SendNotification(embed); err != nil {
		slog.Error("Failed to send announcement", "error", err)
		http.Error(w, "Failed to send to Discord", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
