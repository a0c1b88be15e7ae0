package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manojpracturu/first-aid/internal/model/chat"
)

const (
	missingKeyText = "API key missing. Set GEMINI_API_KEY to use the assistant."
	emptyReplyText = "I couldn't find an answer to that."
)

// Service turns conversation turns into grounded assistant replies. Converse
// never returns an error: every outcome, including configuration and service
// failures, resolves to a well-formed message.
type Service struct {
	gen Generator
}

// NewService wraps a model generator. gen may be nil when credentials are
// missing; Converse then reports the configuration error inline without a
// network attempt.
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// Enabled reports whether a model backend is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.gen != nil
}

// Converse sends the prior transcript plus the new utterance to the model
// with search grounding enabled, and normalizes the reply into a Message.
func (s *Service) Converse(ctx context.Context, history []chat.Message, newText, langCode string) chat.Message {
	if !s.Enabled() {
		return chat.FailedMessage(missingKeyText)
	}

	lang := languageName(langCode)
	req := &GenerateRequest{
		System:    systemInstruction(lang),
		Turns:     buildTurns(history, newText),
		Grounding: GroundingSearch,
	}

	result, err := s.gen.Generate(ctx, req)
	if err != nil {
		log.Printf("[ai] converse failed: %v", err)
		return chat.FailedMessage("Error connecting to the assistant: " + summarize(err))
	}

	text := result.Text
	if strings.TrimSpace(text) == "" {
		text = emptyReplyText
	}

	log.Printf("[ai] generated reply, length=%d, citations=%d", len(text), len(result.Chunks))
	return chat.AssistantMessage(text, classifyCitations(result.Chunks))
}

// systemInstruction fixes the assistant's role and the answer language.
func systemInstruction(lang string) string {
	return "You are an expert first aid assistant for emergencies. " +
		"Provide clear, step-by-step instructions. Keep answers concise and " +
		"action-oriented. Use bullet points for steps. For medical procedures " +
		"such as CPR, prefer referring to diagrams or images found via search. " +
		fmt.Sprintf("IMPORTANT: Respond in %s.", lang)
}

// buildTurns lays out the full prior transcript followed by the new
// utterance.
func buildTurns(history []chat.Message, newText string) []Turn {
	turns := make([]Turn, 0, len(history)+1)
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser, chat.RoleAssistant:
			turns = append(turns, Turn{Role: msg.Role, Text: msg.Text})
		}
	}
	return append(turns, Turn{Role: chat.RoleUser, Text: newText})
}

// classifyCitations maps grounding chunks onto citations. Web references are
// search results; references resolving to a maps URI belong to the map kind.
func classifyCitations(chunks []GroundingChunk) []chat.Citation {
	if len(chunks) == 0 {
		return nil
	}
	citations := make([]chat.Citation, 0, len(chunks))
	for _, chunk := range chunks {
		kind := chat.CitationSearch
		if strings.Contains(chunk.URI, "google.com/maps") {
			kind = chat.CitationMap
		}
		citations = append(citations, chat.Citation{
			Title: chunk.Title,
			URI:   chunk.URI,
			Kind:  kind,
		})
	}
	return citations
}

// summarize keeps error text short enough for a chat bubble.
func summarize(err error) string {
	msg := err.Error()
	const limit = 200
	if len(msg) > limit {
		msg = msg[:limit] + "…"
	}
	return msg
}
