package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/manojpracturu/first-aid/internal/config"
	"github.com/manojpracturu/first-aid/internal/model/chat"
)

// GeminiClient implements Generator against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	cfg    config.AIConfig
}

// NewGeminiClient builds the production model client from configuration.
func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: cfg.Model, cfg: cfg}, nil
}

// Generate performs exactly one model call. Retrying is the caller's call.
func (g *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		role := genai.Role(genai.RoleUser)
		if turn.Role == chat.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	gcfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		gcfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if g.cfg.Temperature != nil {
		gcfg.Temperature = genai.Ptr(float32(*g.cfg.Temperature))
	}
	if g.cfg.MaxTokens != nil {
		gcfg.MaxOutputTokens = int32(*g.cfg.MaxTokens)
	}

	switch req.Grounding {
	case GroundingSearch:
		gcfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case GroundingMaps:
		gcfg.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
		if req.Location != nil {
			gcfg.ToolConfig = &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(req.Location.Latitude),
						Longitude: genai.Ptr(req.Location.Longitude),
					},
				},
			}
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, gcfg)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Text: resp.Text()}
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			result.Chunks = append(result.Chunks, GroundingChunk{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return result, nil
}
