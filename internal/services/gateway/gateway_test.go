package gateway

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/apierr"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/testutil"
)

type call struct {
	Op   string
	ID   model.ParticipantID
	Arg  string
	X, Y int
}

// fakeSessions records calls and fails them with err when set
type fakeSessions struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeSessions) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeSessions) Join(id model.ParticipantID, name string) error {
	return f.record(call{Op: "join", ID: id, Arg: name})
}

func (f *fakeSessions) Leave(id model.ParticipantID) error {
	return f.record(call{Op: "leave", ID: id})
}

func (f *fakeSessions) Shoot(id model.ParticipantID, x, y int) error {
	return f.record(call{Op: "shoot", ID: id, X: x, Y: y})
}

func (f *fakeSessions) Chat(id model.ParticipantID, text string) error {
	return f.record(call{Op: "chat", ID: id, Arg: text})
}

type notification struct {
	To    model.ParticipantID
	Event model.Event
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(to model.ParticipantID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{To: to, Event: event})
}

func (n *fakeNotifier) Broadcast(event model.Event) {
	n.Notify("*", event)
}

func (n *fakeNotifier) BroadcastExcept(except model.ParticipantID, event model.Event) {
	n.Notify("*", event)
}

type GatewaySuite struct {
	suite.Suite
	sessions *fakeSessions
	notifier *fakeNotifier
	gateway  *Gateway
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.sessions = &fakeSessions{}
	s.notifier = &fakeNotifier{}
	s.gateway = New(s.sessions, s.notifier, testutil.NopLogger())
}

func (s *GatewaySuite) send(frame string) {
	s.gateway.HandleMessage("conn-1", []byte(frame))
}

// onlyError returns the single error sent back to the connection
func (s *GatewaySuite) onlyError() (model.EventType, apierr.APIError) {
	s.Require().Len(s.notifier.sent, 1)
	n := s.notifier.sent[0]
	s.Equal(model.ParticipantID("conn-1"), n.To)
	payload, ok := n.Event.Payload.(model.ErrorPayload)
	s.Require().True(ok)
	return n.Event.Type, apierr.FromError(payload.Err)
}

// Dispatch tests

func (s *GatewaySuite) TestLogin() {
	s.send(`{"event":"login","data":{"name":"Alice"}}`)

	s.Equal([]call{{Op: "join", ID: "conn-1", Arg: "Alice"}}, s.sessions.calls)
	s.Empty(s.notifier.sent)
}

func (s *GatewaySuite) TestLoginFailureIsLoginError() {
	s.sessions.err = model.ErrNameTaken
	s.send(`{"event":"login","data":{"name":"Alice"}}`)

	eventType, apiErr := s.onlyError()
	s.Equal(model.EventLoginError, eventType)
	s.Equal(apierr.CodeNameTaken, apiErr.Code)
}

func (s *GatewaySuite) TestLogout() {
	s.send(`{"event":"logout","data":{}}`)
	s.Equal([]call{{Op: "leave", ID: "conn-1"}}, s.sessions.calls)
}

func (s *GatewaySuite) TestLogoutWithoutLogin() {
	s.sessions.err = model.ErrNotLoggedIn
	s.send(`{"event":"logout"}`)

	eventType, apiErr := s.onlyError()
	s.Equal(model.EventError, eventType)
	s.Equal(apierr.CodeNotLoggedIn, apiErr.Code)
}

func (s *GatewaySuite) TestShoot() {
	s.send(`{"event":"shoot","data":{"x":3,"y":4}}`)
	s.Equal([]call{{Op: "shoot", ID: "conn-1", X: 3, Y: 4}}, s.sessions.calls)
}

func (s *GatewaySuite) TestShootWithBadCoordinatesReachesValidation() {
	s.send(`{"event":"shoot","data":{"x":"a","y":1.5}}`)
	s.Equal([]call{{Op: "shoot", ID: "conn-1", X: -1, Y: -1}}, s.sessions.calls)
}

func (s *GatewaySuite) TestShootErrorGoesToShooterOnly() {
	s.sessions.err = model.ErrNotYourTurn
	s.send(`{"event":"shoot","data":{"x":0,"y":0}}`)

	eventType, apiErr := s.onlyError()
	s.Equal(model.EventError, eventType)
	s.Equal(apierr.CodeNotYourTurn, apiErr.Code)
}

func (s *GatewaySuite) TestChat() {
	s.send(`{"event":"chat.send","data":{"text":"moin"}}`)
	s.Equal([]call{{Op: "chat", ID: "conn-1", Arg: "moin"}}, s.sessions.calls)
}

func (s *GatewaySuite) TestChatError() {
	s.sessions.err = model.ErrChatEmpty
	s.send(`{"event":"chat.send","data":{"text":""}}`)

	_, apiErr := s.onlyError()
	s.Equal(apierr.CodeChatEmpty, apiErr.Code)
}

// Malformed input tests

func (s *GatewaySuite) TestMalformedFrame() {
	s.send(`{{{`)

	eventType, apiErr := s.onlyError()
	s.Equal(model.EventError, eventType)
	s.Equal(apierr.CodeInvalidRequest, apiErr.Code)
	s.Empty(s.sessions.calls)
}

func (s *GatewaySuite) TestUnknownEvent() {
	s.send(`{"event":"teleport","data":{}}`)

	_, apiErr := s.onlyError()
	s.Equal(apierr.CodeInvalidRequest, apiErr.Code)
	s.Contains(apiErr.Message, "teleport")
}

func (s *GatewaySuite) TestInvalidData() {
	s.send(`{"event":"login","data":{"name":["Alice"]}}`)

	_, apiErr := s.onlyError()
	s.Equal(apierr.CodeInvalidRequest, apiErr.Code)
	s.Empty(s.sessions.calls)
}

func (s *GatewaySuite) TestUnexpectedErrorIsInternal() {
	s.sessions.err = errors.New("boom")
	s.send(`{"event":"shoot","data":{"x":0,"y":0}}`)

	_, apiErr := s.onlyError()
	s.Equal(apierr.CodeInternalError, apiErr.Code)
}

// Disconnect tests

func (s *GatewaySuite) TestDisconnectLeavesSilently() {
	s.sessions.err = model.ErrNotLoggedIn
	s.gateway.Disconnect("conn-1")

	s.Equal([]call{{Op: "leave", ID: "conn-1"}}, s.sessions.calls)
	s.Empty(s.notifier.sent)
}
