// Package speech owns the two transient speech subsystems of a chat
// session: dictation into the pending composition, and read-aloud of
// assistant replies. The recognition and synthesis engines themselves live
// on the user's device and are reached through the ports below.
package speech

import "errors"

// ErrNotSupported is returned when no recognition capability is attached.
var ErrNotSupported = errors.New("speech: recognition not supported")

// RecognizerConfig mirrors the platform recognition settings: one utterance
// per session, final results only.
type RecognizerConfig struct {
	Lang           string `json:"lang"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interimResults"`
}

// RecognitionErrorCode carries the platform error taxonomy. The two codes
// the controller distinguishes follow the Web Speech API names.
type RecognitionErrorCode string

const (
	RecognitionNotAllowed RecognitionErrorCode = "not-allowed"
	RecognitionNoSpeech   RecognitionErrorCode = "no-speech"
)

// RecognitionEvents receives the lifecycle events of one recognition
// session. The InputController implements it.
type RecognitionEvents interface {
	Result(text string)
	Error(code RecognitionErrorCode)
	End()
}

// Recognizer is the dictation capability. Start opens a session that emits
// events until it ends; Stop must be safe at any time.
type Recognizer interface {
	Start(cfg RecognizerConfig, events RecognitionEvents) error
	Stop()
}

// SynthesisEvents receives the lifecycle events of one utterance. The
// OutputController implements it.
type SynthesisEvents interface {
	End()
	Error(detail string)
}

// Synthesizer is the read-aloud capability: one utterance at a time with a
// global cancel.
type Synthesizer interface {
	Speak(text, lang string, events SynthesisEvents) error
	Cancel()
}

// Notifier surfaces blocking user-facing notices (capability missing,
// microphone permission denied).
type Notifier interface {
	Notify(message string)
}
