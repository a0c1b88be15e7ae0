package ai

import (
	"context"

	"github.com/manojpracturu/first-aid/internal/model/chat"
)

// Grounding selects which retrieval tool the model is asked to use.
type Grounding string

const (
	GroundingSearch Grounding = "search"
	GroundingMaps   Grounding = "maps"
)

// Turn is one conversation turn as sent to the model.
type Turn struct {
	Role chat.Role
	Text string
}

// LatLng anchors a maps-grounded request to a position.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// GenerateRequest carries one full model invocation: the system instruction,
// the prior turns plus the new utterance, and the grounding tool to enable.
type GenerateRequest struct {
	System    string
	Turns     []Turn
	Grounding Grounding
	Location  *LatLng
}

// GroundingChunk is one web reference returned in the model's grounding
// metadata.
type GroundingChunk struct {
	Title string
	URI   string
}

// GenerateResult is the normalized model response.
type GenerateResult struct {
	Text   string
	Chunks []GroundingChunk
}

// Generator abstracts the language-model service. GeminiClient is the
// production implementation; tests inject fakes.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
}
