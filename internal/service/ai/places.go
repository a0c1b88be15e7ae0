package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manojpracturu/first-aid/internal/model/chat"
)

// Place is one nearby medical facility surfaced by a maps-grounded lookup.
type Place struct {
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
}

// DefaultPlacesQuery is used when the caller does not narrow the search.
const DefaultPlacesQuery = "hospitals and clinics"

// FindNearbyPlaces asks the model for medical facilities around a position
// using the maps grounding tool. Like Converse it resolves every failure to
// a textual outcome instead of an error.
func (s *Service) FindNearbyPlaces(ctx context.Context, lat, lng float64, query string) (string, []Place) {
	if !s.Enabled() {
		return missingKeyText, nil
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultPlacesQuery
	}

	req := &GenerateRequest{
		Turns: []Turn{{
			Role: chat.RoleUser,
			Text: fmt.Sprintf("Find %s near latitude %f, longitude %f. List them with name, address, and rating.", query, lat, lng),
		}},
		Grounding: GroundingMaps,
		Location:  &LatLng{Latitude: lat, Longitude: lng},
	}

	result, err := s.gen.Generate(ctx, req)
	if err != nil {
		log.Printf("[ai] places lookup failed: %v", err)
		return "Failed to find location info.", nil
	}

	var places []Place
	for _, chunk := range result.Chunks {
		if !strings.Contains(chunk.URI, "google.com/maps") {
			continue
		}
		name := chunk.Title
		if name == "" {
			name = "Unknown place"
		}
		places = append(places, Place{Name: name, URI: chunk.URI})
	}
	return result.Text, places
}
