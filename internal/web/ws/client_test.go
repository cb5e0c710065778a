package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/testutil"
)

type recordingHandler struct {
	mu           sync.Mutex
	frames       map[model.ParticipantID][]string
	disconnected []model.ParticipantID
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{frames: make(map[model.ParticipantID][]string)}
}

func (h *recordingHandler) HandleMessage(id model.ParticipantID, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames[id] = append(h.frames[id], string(frame))
}

func (h *recordingHandler) Disconnect(id model.ParticipantID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected = append(h.disconnected, id)
}

// onlyConnection returns the single connection that has sent frames
func (h *recordingHandler) onlyConnection() (model.ParticipantID, []string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, frames := range h.frames {
		return id, append([]string(nil), frames...), true
	}
	return "", nil, false
}

func (h *recordingHandler) disconnects() []model.ParticipantID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.ParticipantID(nil), h.disconnected...)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestServeWSRoundTrip(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	handler := newRecordingHandler()
	srv := httptest.NewServer(Handler(hub, handler))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"login","data":{"name":"Alice"}}`)))

	var id model.ParticipantID
	require.Eventually(t, func() bool {
		var ok bool
		id, _, ok = handler.onlyConnection()
		return ok
	}, time.Second, 10*time.Millisecond)

	_, frames, _ := handler.onlyConnection()
	assert.Equal(t, []string{`{"event":"login","data":{"name":"Alice"}}`}, frames)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Notify(id, model.Event{Type: model.EventChatOK})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"chat.ok","data":{"received":true}}`, string(msg))
}

func TestServeWSDisconnectUnregistersFirst(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	handler := newRecordingHandler()
	srv := httptest.NewServer(Handler(hub, handler))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.Close()

	require.Eventually(t, func() bool { return len(handler.disconnects()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestServeWSRejectsOversizedFrames(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	handler := newRecordingHandler()
	srv := httptest.NewServer(Handler(hub, handler))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	defer conn.Close()

	big := `{"event":"chat.send","data":{"text":"` + strings.Repeat("x", maxMessageSize) + `"}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(big)))

	require.Eventually(t, func() bool { return len(handler.disconnects()) == 1 }, time.Second, 10*time.Millisecond)
	_, _, ok := handler.onlyConnection()
	assert.False(t, ok)
}

func TestHubCloseEndsConnections(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	handler := newRecordingHandler()
	srv := httptest.NewServer(Handler(hub, handler))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
