package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/manojpracturu/first-aid/internal/model/chat"
	"github.com/manojpracturu/first-aid/internal/service/session"
)

type echoAssistant struct{}

func (echoAssistant) Converse(_ context.Context, _ []chat.Message, text, _ string) chat.Message {
	return chat.AssistantMessage("echo: "+text, nil)
}

type memoryStore struct {
	transcripts map[string][]chat.Message
}

func (s *memoryStore) SaveTranscript(_ context.Context, uid string, messages []chat.Message) error {
	s.transcripts[uid] = append([]chat.Message(nil), messages...)
	return nil
}

func (s *memoryStore) LoadTranscript(_ context.Context, uid string) ([]chat.Message, error) {
	return s.transcripts[uid], nil
}

func setupServer(t *testing.T) (*httptest.Server, *session.Manager, string) {
	t.Helper()

	sessions := session.NewManager(echoAssistant{}, &memoryStore{transcripts: make(map[string][]chat.Message)})
	ctl, err := sessions.Open(context.Background(), "user-1", "en-US")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	r := chi.NewRouter()
	New(sessions).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, sessions, ctl.Session().ID
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/speech/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) outgoingMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg outgoingMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(inboundMessage{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write message: %v", err)
	}
}

func TestUnknownSessionRejected(t *testing.T) {
	srv, _, _ := setupServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/speech/ws/no-such"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}

func TestToggleDictationStartsRecognition(t *testing.T) {
	srv, _, sessionID := setupServer(t)
	conn := dial(t, srv, sessionID)

	send(t, conn, "toggle_dictation", nil)

	msg := readMessage(t, conn)
	if msg.Type != "start_recognition" {
		t.Fatalf("expected start_recognition, got %s", msg.Type)
	}

	msg = readMessage(t, conn)
	if msg.Type != "dictation_state" {
		t.Fatalf("expected dictation_state, got %s", msg.Type)
	}
	state, _ := msg.Data.(map[string]any)
	if state["state"] != "listening" {
		t.Fatalf("expected listening state, got %v", msg.Data)
	}
}

func TestRecognitionResultUpdatesComposition(t *testing.T) {
	srv, sessions, sessionID := setupServer(t)
	conn := dial(t, srv, sessionID)

	send(t, conn, "toggle_dictation", nil)
	readMessage(t, conn) // start_recognition
	readMessage(t, conn) // dictation_state

	send(t, conn, "recognition_result", map[string]string{"text": "my arm hurts"})

	msg := readMessage(t, conn)
	if msg.Type != "composition" {
		t.Fatalf("expected composition, got %s", msg.Type)
	}
	body, _ := msg.Data.(map[string]any)
	if body["text"] != "my arm hurts" {
		t.Fatalf("unexpected composition %v", msg.Data)
	}

	ctl, err := sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got := ctl.Input().Composition(); got != "my arm hurts" {
		t.Fatalf("controller composition %q", got)
	}
}

func TestSpeakUnknownMessage(t *testing.T) {
	srv, _, sessionID := setupServer(t)
	conn := dial(t, srv, sessionID)

	send(t, conn, "speak", map[string]string{"messageId": "no-such"})

	msg := readMessage(t, conn)
	if msg.Type != "error" {
		t.Fatalf("expected error, got %s", msg.Type)
	}
}

func TestSpeakKnownMessage(t *testing.T) {
	srv, sessions, sessionID := setupServer(t)
	conn := dial(t, srv, sessionID)

	ctl, err := sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	reply, err := ctl.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	send(t, conn, "speak", map[string]string{"messageId": reply.ID})

	msg := readMessage(t, conn)
	if msg.Type != "speak" {
		t.Fatalf("expected speak command, got %s", msg.Type)
	}

	msg = readMessage(t, conn)
	if msg.Type != "read_aloud_state" {
		t.Fatalf("expected read_aloud_state, got %s", msg.Type)
	}
	state, _ := msg.Data.(map[string]any)
	if state["state"] != "speaking" || state["activeMessageId"] != reply.ID {
		t.Fatalf("unexpected read-aloud state %v", msg.Data)
	}
}
