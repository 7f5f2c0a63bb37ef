package discord

import (
	"sync"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/handler"
)

// VoiceState is the part of a Discord voice state update the tracker
// needs. An empty ChannelID means the user left voice.
type VoiceState struct {
	UserID    string
	Username  string
	ChannelID string
	Muted     bool
	Deafened  bool
	Streaming bool
}

func (v VoiceState) active() bool { return !v.Muted && !v.Deafened }

type voiceSession struct {
	username  string
	channelID string
	active    bool
	streaming bool
	since     time.Time
}

// VoiceTracker turns voice join/leave/mute/stream transitions into whole
// minute segments. Each segment has one active and one streaming flag;
// a state change closes the open segment and drops its partial minute.
type VoiceTracker struct {
	mu       sync.Mutex
	sessions map[string]*voiceSession
	now      func() time.Time
}

func NewVoiceTracker() *VoiceTracker {
	return &VoiceTracker{
		sessions: make(map[string]*voiceSession),
		now:      time.Now,
	}
}

// Update applies a voice state and returns the segments it closed
func (t *VoiceTracker) Update(st VoiceState) []handler.VoiceRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	sess, ok := t.sessions[st.UserID]

	if st.ChannelID == "" {
		if !ok {
			return nil
		}
		delete(t.sessions, st.UserID)
		return segment(st.UserID, sess, now)
	}

	if !ok {
		t.sessions[st.UserID] = &voiceSession{
			username:  st.Username,
			channelID: st.ChannelID,
			active:    st.active(),
			streaming: st.Streaming,
			since:     now,
		}
		return nil
	}

	if st.Username != "" {
		sess.username = st.Username
	}
	if sess.channelID == st.ChannelID && sess.active == st.active() && sess.streaming == st.Streaming {
		return nil
	}

	out := segment(st.UserID, sess, now)
	sess.channelID = st.ChannelID
	sess.active = st.active()
	sess.streaming = st.Streaming
	sess.since = now
	return out
}

// Flush closes the whole minutes of every open session and keeps the
// remainder running
func (t *VoiceTracker) Flush() []handler.VoiceRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var out []handler.VoiceRequest
	for userID, sess := range t.sessions {
		reqs := segment(userID, sess, now)
		if len(reqs) == 0 {
			continue
		}
		total := 0
		for _, r := range reqs {
			total += r.Minutes
		}
		sess.since = sess.since.Add(time.Duration(total) * time.Minute)
		out = append(out, reqs...)
	}
	return out
}

// Close ends every session, as on shutdown
func (t *VoiceTracker) Close() []handler.VoiceRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var out []handler.VoiceRequest
	for userID, sess := range t.sessions {
		out = append(out, segment(userID, sess, now)...)
	}
	t.sessions = make(map[string]*voiceSession)
	return out
}

// Sessions reports how many users are in voice
func (t *VoiceTracker) Sessions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// maxSegmentMinutes is the largest span the API accepts in one request
const maxSegmentMinutes = 24 * 60

func segment(userID string, sess *voiceSession, now time.Time) []handler.VoiceRequest {
	minutes := int(now.Sub(sess.since) / time.Minute)
	var out []handler.VoiceRequest
	for minutes > 0 {
		chunk := min(minutes, maxSegmentMinutes)
		out = append(out, handler.VoiceRequest{
			UserID:      userID,
			Username:    sess.username,
			Minutes:     chunk,
			IsStreaming: sess.streaming,
			IsActive:    sess.active,
		})
		minutes -= chunk
	}
	return out
}
