package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// TestContext wires a fake economy API and a Discord session whose REST
// calls are captured instead of sent
type TestContext struct {
	Server    *httptest.Server
	Mux       *http.ServeMux
	APIClient *APIClient
	Session   *discordgo.Session

	mu       sync.Mutex
	edits    []discordgo.WebhookEdit
	messages []discordgo.MessageSend
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewAPIClient(server.URL, "test-api-key")
	client.retryDelay = time.Millisecond

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	tc := &TestContext{Server: server, Mux: mux, APIClient: client, Session: session}
	session.Client = &http.Client{Transport: &MockRoundTripper{RoundTripFunc: tc.captureDiscord}}
	return tc
}

func (tc *TestContext) captureDiscord(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	tc.mu.Lock()
	defer tc.mu.Unlock()

	path := req.URL.Path
	switch {
	case req.Method == http.MethodPatch && strings.Contains(path, "/webhooks/"):
		var edit discordgo.WebhookEdit
		_ = json.Unmarshal(body, &edit)
		tc.edits = append(tc.edits, edit)
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/messages"):
		var msg discordgo.MessageSend
		_ = json.Unmarshal(body, &msg)
		tc.messages = append(tc.messages, msg)
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/users/@me/channels"):
		return jsonResponse(`{"id":"dm-channel"}`), nil
	}
	return jsonResponse("{}"), nil
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// LastEmbed returns the most recent embed edited into an interaction
func (tc *TestContext) LastEmbed(t *testing.T) *discordgo.MessageEmbed {
	t.Helper()
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for i := len(tc.edits) - 1; i >= 0; i-- {
		if e := tc.edits[i].Embeds; e != nil && len(*e) > 0 {
			return (*e)[0]
		}
	}
	t.Fatal("no embed was sent")
	return nil
}

// LastContent returns the most recent plain-text interaction edit
func (tc *TestContext) LastContent(t *testing.T) string {
	t.Helper()
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for i := len(tc.edits) - 1; i >= 0; i-- {
		if c := tc.edits[i].Content; c != nil {
			return *c
		}
	}
	t.Fatal("no content was sent")
	return ""
}

func (tc *TestContext) Messages() []discordgo.MessageSend {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]discordgo.MessageSend(nil), tc.messages...)
}

// WriteJSON writes data as a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:    "interaction-1",
			AppID: "app-1",
			Token: "token-1",
			Type:  discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "123", Username: "Tester"},
			},
		},
	}
}

func subcommandOption(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	// the gateway delivers numbers as float64
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}
