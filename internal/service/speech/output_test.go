package speech

import "testing"

type fakeSynthesizer struct {
	events  SynthesisEvents
	spoken  []string
	langs   []string
	cancels int
}

func (f *fakeSynthesizer) Speak(text, lang string, events SynthesisEvents) error {
	f.spoken = append(f.spoken, text)
	f.langs = append(f.langs, lang)
	f.events = events
	return nil
}

func (f *fakeSynthesizer) Cancel() {
	f.cancels++
}

func TestSpeakStartsUtterance(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("Apply **firm** pressure.", "m1")

	if c.State() != OutputSpeaking {
		t.Fatalf("expected speaking, got %s", c.State())
	}
	if c.ActiveMessageID() != "m1" {
		t.Fatalf("expected active id m1, got %q", c.ActiveMessageID())
	}
	if len(synth.spoken) != 1 || synth.spoken[0] != "Apply firm pressure." {
		t.Fatalf("expected sanitized utterance, got %v", synth.spoken)
	}
	if synth.langs[0] != "en-US" {
		t.Fatalf("utterance should carry the session language, got %q", synth.langs[0])
	}
}

func TestSpeakSameIDToggles(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("hello", "m1")
	c.Speak("hello", "m1")

	if c.State() != OutputIdle {
		t.Fatalf("toggle should return to idle, got %s", c.State())
	}
	if c.ActiveMessageID() != "" {
		t.Fatalf("toggle should clear the active id, got %q", c.ActiveMessageID())
	}
	if synth.cancels != 1 {
		t.Fatalf("toggle should cancel audio once, got %d", synth.cancels)
	}
	if len(synth.spoken) != 1 {
		t.Fatalf("toggle must not start a new utterance, got %v", synth.spoken)
	}
}

func TestSpeakOtherIDCancelsFirst(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("one", "m1")
	c.Speak("two", "m2")

	if synth.cancels != 1 {
		t.Fatalf("switching messages should cancel the previous utterance, got %d", synth.cancels)
	}
	if c.ActiveMessageID() != "m2" {
		t.Fatalf("expected m2 active, got %q", c.ActiveMessageID())
	}
	if len(synth.spoken) != 2 {
		t.Fatalf("expected two utterances, got %v", synth.spoken)
	}
}

func TestSpeakEmptyAfterSanitizeIsNoop(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("### *** ___", "m1")

	if c.State() != OutputIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if len(synth.spoken) != 0 {
		t.Fatalf("nothing should be spoken, got %v", synth.spoken)
	}
}

func TestSynthesisEndClearsSession(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("hello", "m1")
	synth.events.End()

	if c.State() != OutputIdle || c.ActiveMessageID() != "" {
		t.Fatalf("end must clear state, got %s/%q", c.State(), c.ActiveMessageID())
	}
}

func TestSynthesisErrorClearsSession(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("hello", "m1")
	synth.events.Error("audio device gone")

	if c.State() != OutputIdle || c.ActiveMessageID() != "" {
		t.Fatalf("error must clear state, got %s/%q", c.State(), c.ActiveMessageID())
	}
}

func TestCloseCancelsActiveUtterance(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := NewOutputController("en-US")
	c.Bind(synth)

	c.Speak("hello", "m1")
	c.Close()

	if synth.cancels != 1 {
		t.Fatalf("teardown should cancel audio, got %d", synth.cancels)
	}
	if c.State() != OutputIdle {
		t.Fatalf("expected idle after close, got %s", c.State())
	}

	c.Close() // idle close is harmless
	if synth.cancels != 1 {
		t.Fatalf("idle close should not cancel again, got %d", synth.cancels)
	}
}

func TestSpeakWithoutCapabilityIsNoop(t *testing.T) {
	c := NewOutputController("en-US")

	c.Speak("hello", "m1")

	if c.State() != OutputIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
}
