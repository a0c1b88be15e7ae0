package speech

import (
	"log"
	"sync"
)

// OutputState is the read-aloud session state.
type OutputState string

const (
	OutputIdle     OutputState = "idle"
	OutputSpeaking OutputState = "speaking"
)

// OutputController reads an assistant reply aloud, one utterance at a time.
// Requesting the message that is already playing toggles it off.
type OutputController struct {
	mu       sync.Mutex
	synth    Synthesizer
	lang     string
	state    OutputState
	activeID string
}

// NewOutputController creates an idle controller for the session language.
func NewOutputController(lang string) *OutputController {
	return &OutputController{lang: lang, state: OutputIdle}
}

// Bind attaches (or with nil detaches) the device synthesis capability.
func (c *OutputController) Bind(synth Synthesizer) {
	c.mu.Lock()
	c.synth = synth
	c.mu.Unlock()
}

// Speak starts reading text aloud tagged with messageID. If that message is
// already playing the call is a toggle and cancels it. Any other active
// utterance is cancelled first; there is only one output channel.
func (c *OutputController) Speak(text, messageID string) {
	c.mu.Lock()
	synth := c.synth
	if synth == nil {
		c.mu.Unlock()
		return
	}
	toggle := c.state == OutputSpeaking && c.activeID == messageID
	speaking := c.state == OutputSpeaking
	if toggle {
		c.state = OutputIdle
		c.activeID = ""
	}
	c.mu.Unlock()

	if toggle {
		synth.Cancel()
		return
	}
	if speaking {
		synth.Cancel()
	}

	clean := SanitizeForSpeech(text)
	if clean == "" {
		return
	}

	c.mu.Lock()
	c.state = OutputSpeaking
	c.activeID = messageID
	lang := c.lang
	c.mu.Unlock()

	if err := synth.Speak(clean, lang, c); err != nil {
		log.Printf("[speech] synthesis failed for message=%s: %v", messageID, err)
		c.reset()
	}
}

// Cancel stops any active utterance and returns to idle.
func (c *OutputController) Cancel() {
	c.mu.Lock()
	synth := c.synth
	speaking := c.state == OutputSpeaking
	c.state = OutputIdle
	c.activeID = ""
	c.mu.Unlock()

	if speaking && synth != nil {
		synth.Cancel()
	}
}

// Close cancels unconditionally; called on session teardown.
func (c *OutputController) Close() {
	c.Cancel()
}

// State returns the current session state.
func (c *OutputController) State() OutputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveMessageID returns the id of the message being read, or "".
func (c *OutputController) ActiveMessageID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// End clears the session when the utterance finishes.
func (c *OutputController) End() {
	c.reset()
}

// Error clears the session when synthesis reports a failure.
func (c *OutputController) Error(detail string) {
	log.Printf("[speech] synthesis error: %s", detail)
	c.reset()
}

func (c *OutputController) reset() {
	c.mu.Lock()
	c.state = OutputIdle
	c.activeID = ""
	c.mu.Unlock()
}
