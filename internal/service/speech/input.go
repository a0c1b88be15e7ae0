package speech

import (
	"log"
	"strings"
	"sync"
)

// InputState is the dictation session state.
type InputState string

const (
	InputIdle      InputState = "idle"
	InputListening InputState = "listening"
)

// InputController runs at most one dictation session and accumulates
// recognized text into the pending composition. The recognizer is attached
// when a device connects and detached when it goes away.
type InputController struct {
	mu          sync.Mutex
	recognizer  Recognizer
	notifier    Notifier
	lang        string
	state       InputState
	composition string
}

// NewInputController creates an idle controller for the session language.
func NewInputController(notifier Notifier, lang string) *InputController {
	return &InputController{notifier: notifier, lang: lang, state: InputIdle}
}

// Bind attaches (or with nil detaches) the device recognition capability.
func (c *InputController) Bind(rec Recognizer) {
	c.mu.Lock()
	c.recognizer = rec
	c.mu.Unlock()
}

// SetNotifier routes user-facing notices to the connected device.
func (c *InputController) SetNotifier(n Notifier) {
	c.mu.Lock()
	c.notifier = n
	c.mu.Unlock()
}

// Start begins a dictation session. Calling it while already listening is a
// no-op; a second concurrent session is never created.
func (c *InputController) Start() error {
	c.mu.Lock()
	rec := c.recognizer
	if rec == nil {
		c.mu.Unlock()
		c.notify("Voice input is not supported on this device.")
		return ErrNotSupported
	}
	if c.state == InputListening {
		c.mu.Unlock()
		return nil
	}
	c.state = InputListening
	lang := c.lang
	c.mu.Unlock()

	cfg := RecognizerConfig{Lang: lang, Continuous: false, InterimResults: false}
	if err := rec.Start(cfg, c); err != nil {
		c.mu.Lock()
		c.state = InputIdle
		c.mu.Unlock()
		log.Printf("[speech] failed to start recognition: %v", err)
		return err
	}
	return nil
}

// Stop ends the active dictation session. Stopping while idle is a no-op.
func (c *InputController) Stop() {
	c.mu.Lock()
	rec := c.recognizer
	active := c.state == InputListening
	c.mu.Unlock()

	if active && rec != nil {
		rec.Stop()
	}
}

// State returns the current session state.
func (c *InputController) State() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Composition returns the pending message text.
func (c *InputController) Composition() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composition
}

// SetComposition replaces the pending text, used for typed edits.
func (c *InputController) SetComposition(text string) {
	c.mu.Lock()
	c.composition = text
	c.mu.Unlock()
}

// ClearComposition empties the pending text.
func (c *InputController) ClearComposition() {
	c.SetComposition("")
}

// Result appends recognized text to the composition, separated from any
// existing text by a single space. Recognized text never replaces typed
// text.
func (c *InputController) Result(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if trimmed := strings.TrimSpace(c.composition); trimmed != "" {
		c.composition = trimmed + " " + text
	} else {
		c.composition = text
	}
}

// Error transitions to idle. A permission denial gets a user-facing notice;
// no-speech is an expected outcome of accidental activation and stays
// silent.
func (c *InputController) Error(code RecognitionErrorCode) {
	c.mu.Lock()
	c.state = InputIdle
	c.mu.Unlock()

	switch code {
	case RecognitionNotAllowed:
		c.notify("Microphone access denied. Allow microphone access to use voice input.")
	case RecognitionNoSpeech:
		// accidental mic tap, nothing to report
	default:
		log.Printf("[speech] recognition error: %s", code)
	}
}

// End transitions to idle when the session finishes naturally.
func (c *InputController) End() {
	c.mu.Lock()
	c.state = InputIdle
	c.mu.Unlock()
}

func (c *InputController) notify(message string) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	if n != nil {
		n.Notify(message)
	}
}
