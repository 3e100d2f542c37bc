package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// ConceptSourcingProvider supplies raw candidate concepts and relationships
// for a subject. Output carries no validity guarantees; the knowledge
// module normalizes whatever comes back.
type ConceptSourcingProvider interface {
	FetchCandidates(ctx context.Context, subject string, scope types.SourcingScope) ([]*types.ConceptNode, []*types.ConceptRelationship, error)
}

var scopeConceptCounts = map[types.SourcingScope]int{
	types.ScopeBasic:         8,
	types.ScopeIntermediate:  12,
	types.ScopeAdvanced:      15,
	types.ScopeComprehensive: 20,
}

type openaiConceptSource struct {
	log    *logger.Logger
	client OpenAIClient
}

func NewOpenAIConceptSource(baseLog *logger.Logger, client OpenAIClient) ConceptSourcingProvider {
	return &openaiConceptSource{
		log:    baseLog.With("service", "ConceptSource"),
		client: client,
	}
}

// candidatePayload mirrors the JSON schema handed to the model.
type candidatePayload struct {
	Concepts      []*types.ConceptNode         `json:"concepts"`
	Relationships []*types.ConceptRelationship `json:"relationships"`
}

func (p *openaiConceptSource) FetchCandidates(ctx context.Context, subject string, scope types.SourcingScope) ([]*types.ConceptNode, []*types.ConceptRelationship, error) {
	count, ok := scopeConceptCounts[scope]
	if !ok {
		count = scopeConceptCounts[types.ScopeComprehensive]
	}

	system := "You are a curriculum designer. Produce a concept map for the requested subject. " +
		"Every concept needs a stable snake_case id, a difficulty from 1 (trivial) to 10 (expert), " +
		"an estimated learning time in minutes, and an importance from 1 to 10. " +
		"Relationships reference concept ids; use type \"prerequisite\" only when the target concept " +
		"genuinely must be learned before the source concept."
	user := fmt.Sprintf("Subject: %s\nScope: %s\nGenerate about %d concepts with their relationships.", subject, scope, count)

	obj, err := p.client.GenerateJSON(ctx, system, user, "concept_candidates", candidateSchema())
	if err != nil {
		return nil, nil, fmt.Errorf("fetch candidates: %w", err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("re-encode candidates: %w", err)
	}
	var payload candidatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode candidates: %w", err)
	}

	p.log.Debug("fetched candidates",
		"subject", subject,
		"scope", scope,
		"concepts", len(payload.Concepts),
		"relationships", len(payload.Relationships),
	)
	return payload.Concepts, payload.Relationships, nil
}

func candidateSchema() map[string]any {
	conceptProps := map[string]any{
		"id":          map[string]any{"type": "string"},
		"name":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"category":    map[string]any{"type": "string"},
		"difficulty":  map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"skills":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"estimated_learning_time": map[string]any{"type": "integer", "minimum": 1},
		"importance":              map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"metadata": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"subject":                 map[string]any{"type": "string"},
				"subfield":                map[string]any{"type": "string"},
				"keywords":                map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"learning_objectives":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"assessment_methods":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"real_world_applications": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
	relationshipProps := map[string]any{
		"id":              map[string]any{"type": "string"},
		"from_concept_id": map[string]any{"type": "string"},
		"to_concept_id":   map[string]any{"type": "string"},
		"type": map[string]any{
			"type": "string",
			"enum": []string{
				"prerequisite", "builds_on", "related", "alternative",
				"complementary", "contradictory", "example_of", "generalizes",
			},
		},
		"strength":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"description": map[string]any{"type": "string"},
		"direction":   map[string]any{"type": "string", "enum": []string{"bidirectional", "unidirectional"}},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"concepts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "properties": conceptProps, "required": []string{"id", "name", "difficulty"}},
			},
			"relationships": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "properties": relationshipProps, "required": []string{"from_concept_id", "to_concept_id", "type"}},
			},
		},
		"required": []string{"concepts", "relationships"},
	}
}

// staticConceptSource returns nothing; it lets the service boot without an
// OpenAI key and still build valid (degenerate) graphs from inline input.
type staticConceptSource struct{}

func NewStaticConceptSource() ConceptSourcingProvider {
	return staticConceptSource{}
}

func (staticConceptSource) FetchCandidates(ctx context.Context, subject string, scope types.SourcingScope) ([]*types.ConceptNode, []*types.ConceptRelationship, error) {
	return []*types.ConceptNode{}, []*types.ConceptRelationship{}, nil
}
