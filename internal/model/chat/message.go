package chat

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CitationKind distinguishes how a grounded source was retrieved.
type CitationKind string

const (
	CitationSearch CitationKind = "search"
	CitationMap    CitationKind = "map"
)

// Citation is one external source an assistant reply was grounded in.
type Citation struct {
	Title string       `json:"title,omitempty"`
	URI   string       `json:"uri,omitempty"`
	Kind  CitationKind `json:"kind"`
}

// Message is one turn of a first-aid conversation. Assistant turns may carry
// markdown in Text plus citations extracted from the model's grounding
// metadata. Failed marks a reply that reports an error instead of content.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	Citations []Citation `json:"citations,omitempty"`
	Failed    bool       `json:"failed,omitempty"`
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a timestamp-ordered message identifier. ULIDs drawn from a
// shared monotonic source cannot collide within a process.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}

// UserMessage builds a user turn stamped with the current time.
func UserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// AssistantMessage builds an assistant turn stamped with the current time.
func AssistantMessage(text string, citations []Citation) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Citations: citations,
	}
}

// FailedMessage builds an assistant turn that reports an error inline.
func FailedMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Failed:    true,
	}
}
