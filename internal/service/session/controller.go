package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/manojpracturu/first-aid/internal/model/chat"
	"github.com/manojpracturu/first-aid/internal/service/speech"
)

var (
	ErrEmptyMessage   = errors.New("session: message text is empty")
	ErrRequestPending = errors.New("session: a request is already pending")
	ErrSessionReset   = errors.New("session: reply discarded, session was reset")
)

// Assistant produces a reply for the transcript so far plus a new utterance.
// Implemented by the ai service; always resolves to a message.
type Assistant interface {
	Converse(ctx context.Context, history []chat.Message, newText, langCode string) chat.Message
}

// TranscriptStore is the durable side of the session. Implemented by the
// store gateway.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, uid string, messages []chat.Message) error
	LoadTranscript(ctx context.Context, uid string) ([]chat.Message, error)
}

// Controller owns one user's live transcript and sequences every
// user-visible action across the assistant, the persistence gateway and the
// two speech controllers.
type Controller struct {
	session   chat.Session
	assistant Assistant
	store     TranscriptStore
	input     *speech.InputController
	output    *speech.OutputController

	mu         sync.Mutex
	transcript []chat.Message
	pending    bool
	loaded     bool
	generation uint64
}

// NewController builds an unloaded controller. Call Load before sending so
// an empty in-memory transcript cannot overwrite a stored one.
func NewController(session chat.Session, assistant Assistant, store TranscriptStore) *Controller {
	return &Controller{
		session:   session,
		assistant: assistant,
		store:     store,
		input:     speech.NewInputController(nil, session.Language),
		output:    speech.NewOutputController(session.Language),
	}
}

// AttachDevice binds a connected device's speech capabilities and notice
// channel to the session.
func (c *Controller) AttachDevice(rec speech.Recognizer, synth speech.Synthesizer, notifier speech.Notifier) {
	c.input.Bind(rec)
	c.input.SetNotifier(notifier)
	c.output.Bind(synth)
}

// DetachDevice stops any speech activity and unbinds the capabilities when
// the device goes away.
func (c *Controller) DetachDevice() {
	c.input.Stop()
	c.input.Bind(nil)
	c.input.SetNotifier(nil)
	c.output.Close()
	c.output.Bind(nil)
}

// Session returns the immutable session descriptor.
func (c *Controller) Session() chat.Session {
	return c.session
}

// Input exposes the dictation controller.
func (c *Controller) Input() *speech.InputController {
	return c.input
}

// Output exposes the read-aloud controller.
func (c *Controller) Output() *speech.OutputController {
	return c.output
}

// Load fetches the stored transcript and enables persistence. Any reply
// still in flight from before the reload is invalidated.
func (c *Controller) Load(ctx context.Context) error {
	messages, err := c.store.LoadTranscript(ctx, c.session.UserID)
	if err != nil {
		// the gateway absorbs its own failures; treat a surfaced error
		// as an empty history rather than blocking the session
		log.Printf("[session] transcript load failed for user=%s: %v", c.session.UserID, err)
		messages = []chat.Message{}
	}

	c.mu.Lock()
	c.transcript = messages
	c.loaded = true
	c.pending = false
	c.generation++
	c.mu.Unlock()
	return nil
}

// Transcript returns a copy of the live transcript.
func (c *Controller) Transcript() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Message(nil), c.transcript...)
}

// Pending reports whether an assistant request is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send records a user message and resolves it with exactly one assistant
// reply, success or failed. Blank text and overlapping sends are rejected
// without touching the transcript. Sending always wins over speech: both
// speech controllers are stopped before the user message is recorded.
func (c *Controller) Send(ctx context.Context, text string) (chat.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return chat.Message{}, ErrRequestPending
	}
	c.pending = true
	c.generation++
	generation := c.generation
	history := append([]chat.Message(nil), c.transcript...)
	c.mu.Unlock()

	c.input.Stop()
	c.input.ClearComposition()
	c.output.Cancel()

	c.append(ctx, chat.UserMessage(trimmed))

	reply := c.assistant.Converse(ctx, history, trimmed, c.session.Language)

	c.mu.Lock()
	stale := generation != c.generation
	if !stale {
		c.pending = false
	}
	c.mu.Unlock()

	if stale {
		log.Printf("[session] discarding stale reply for user=%s", c.session.UserID)
		return chat.Message{}, ErrSessionReset
	}

	c.append(ctx, reply)
	return reply, nil
}

// Close tears down the transient speech sessions.
func (c *Controller) Close() {
	c.input.Stop()
	c.output.Close()
}

// append records a transcript mutation and persists the full transcript.
// Persistence is suppressed until Load has completed; failures beyond that
// are already absorbed by the gateway, so a surfaced error is only logged.
func (c *Controller) append(ctx context.Context, msg chat.Message) {
	c.mu.Lock()
	c.transcript = append(c.transcript, msg)
	snapshot := append([]chat.Message(nil), c.transcript...)
	loaded := c.loaded
	c.mu.Unlock()

	if !loaded {
		return
	}
	if err := c.store.SaveTranscript(ctx, c.session.UserID, snapshot); err != nil {
		log.Printf("[session] transcript persist failed for user=%s: %v", c.session.UserID, err)
	}
}
