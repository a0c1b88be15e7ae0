// Package speech bridges a device's speech capabilities into the session
// engine. The recognition and synthesis engines run on the user's device;
// one websocket per session carries capability commands outward and
// lifecycle events back.
package speech

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/manojpracturu/first-aid/internal/service/session"
	speechsvc "github.com/manojpracturu/first-aid/internal/service/speech"
)

// Handler upgrades speech gateway connections.
type Handler struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
}

// New creates the gateway handler.
func New(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/speech/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	ctl, err := h.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[speech-ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}

	dev := &device{conn: conn}
	ctl.AttachDevice(dev, dev, dev)
	log.Printf("[speech-ws] device attached, session=%s", sessionID)

	defer func() {
		ctl.DetachDevice()
		conn.Close()
		log.Printf("[speech-ws] device detached, session=%s", sessionID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[speech-ws] read failed for session=%s: %v", sessionID, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			dev.send("error", map[string]string{"error": "invalid message"})
			continue
		}

		h.dispatch(ctl, dev, msg)
	}
}

// dispatch routes one inbound message: user intents drive the controllers,
// capability events feed back into whichever session they belong to.
func (h *Handler) dispatch(ctl *session.Controller, dev *device, msg inboundMessage) {
	switch msg.Type {
	case "toggle_dictation":
		if ctl.Input().State() == speechsvc.InputListening {
			ctl.Input().Stop()
		} else if err := ctl.Input().Start(); err != nil {
			log.Printf("[speech-ws] dictation start rejected: %v", err)
		}
		dev.sendDictationState(ctl)

	case "stop_dictation":
		ctl.Input().Stop()
		dev.sendDictationState(ctl)

	case "speak":
		var payload struct {
			MessageID string `json:"messageId"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.MessageID == "" {
			dev.send("error", map[string]string{"error": "messageId is required"})
			return
		}
		for _, m := range ctl.Transcript() {
			if m.ID == payload.MessageID {
				ctl.Output().Speak(m.Text, m.ID)
				dev.sendReadAloudState(ctl)
				return
			}
		}
		dev.send("error", map[string]string{"error": "message not found"})

	case "cancel_speech":
		ctl.Output().Cancel()
		dev.sendReadAloudState(ctl)

	case "recognition_result":
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		if events := dev.recognitionEvents(); events != nil {
			events.Result(payload.Text)
		}
		dev.send("composition", map[string]string{"text": ctl.Input().Composition()})

	case "recognition_error":
		var payload struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		if events := dev.recognitionEvents(); events != nil {
			events.Error(speechsvc.RecognitionErrorCode(payload.Code))
		}
		dev.sendDictationState(ctl)

	case "recognition_end":
		if events := dev.recognitionEvents(); events != nil {
			events.End()
		}
		dev.sendDictationState(ctl)

	case "speech_end":
		if events := dev.synthesisEvents(); events != nil {
			events.End()
		}
		dev.sendReadAloudState(ctl)

	case "speech_error":
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(msg.Data, &payload)
		if events := dev.synthesisEvents(); events != nil {
			events.Error(payload.Detail)
		}
		dev.sendReadAloudState(ctl)

	default:
		dev.send("error", map[string]string{"error": "unknown message type"})
	}
}

// device proxies the platform speech capabilities of one connected client.
// It implements the Recognizer, Synthesizer and Notifier ports by turning
// port calls into websocket commands.
type device struct {
	conn *websocket.Conn

	mu        sync.Mutex
	recEvents speechsvc.RecognitionEvents
	synEvents speechsvc.SynthesisEvents
}

func (d *device) send(msgType string, data any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn.WriteJSON(outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Start asks the device to begin platform recognition.
func (d *device) Start(cfg speechsvc.RecognizerConfig, events speechsvc.RecognitionEvents) error {
	d.mu.Lock()
	d.recEvents = events
	d.mu.Unlock()
	return d.send("start_recognition", cfg)
}

// Stop asks the device to end the recognition session.
func (d *device) Stop() {
	if err := d.send("stop_recognition", nil); err != nil {
		log.Printf("[speech-ws] stop_recognition send failed: %v", err)
	}
}

// Speak asks the device to read text aloud.
func (d *device) Speak(text, lang string, events speechsvc.SynthesisEvents) error {
	d.mu.Lock()
	d.synEvents = events
	d.mu.Unlock()
	return d.send("speak", map[string]string{"text": text, "lang": lang})
}

// Cancel asks the device to stop any active utterance.
func (d *device) Cancel() {
	if err := d.send("cancel_speech", nil); err != nil {
		log.Printf("[speech-ws] cancel_speech send failed: %v", err)
	}
}

// Notify forwards a blocking user notice to the device.
func (d *device) Notify(message string) {
	if err := d.send("notice", map[string]string{"message": message}); err != nil {
		log.Printf("[speech-ws] notice send failed: %v", err)
	}
}

func (d *device) recognitionEvents() speechsvc.RecognitionEvents {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recEvents
}

func (d *device) synthesisEvents() speechsvc.SynthesisEvents {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.synEvents
}

func (d *device) sendDictationState(ctl *session.Controller) {
	d.send("dictation_state", map[string]string{"state": string(ctl.Input().State())})
}

func (d *device) sendReadAloudState(ctl *session.Controller) {
	d.send("read_aloud_state", map[string]any{
		"state":           string(ctl.Output().State()),
		"activeMessageId": ctl.Output().ActiveMessageID(),
	})
}
