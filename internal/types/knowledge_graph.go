package types

import (
	"time"
)

// RelationshipType classifies an edge between two concepts. Only
// RelationshipPrerequisite participates in acyclicity and difficulty
// constraints; every other type is annotative.
type RelationshipType string

const (
	RelationshipPrerequisite  RelationshipType = "prerequisite"
	RelationshipBuildsOn      RelationshipType = "builds_on"
	RelationshipRelated       RelationshipType = "related"
	RelationshipAlternative   RelationshipType = "alternative"
	RelationshipComplementary RelationshipType = "complementary"
	RelationshipContradictory RelationshipType = "contradictory"
	RelationshipExampleOf     RelationshipType = "example_of"
	RelationshipGeneralizes   RelationshipType = "generalizes"
)

type RelationshipDirection string

const (
	DirectionBidirectional  RelationshipDirection = "bidirectional"
	DirectionUnidirectional RelationshipDirection = "unidirectional"
)

// SourcingScope is the breadth hint passed to the concept-sourcing provider.
type SourcingScope string

const (
	ScopeBasic         SourcingScope = "basic"
	ScopeIntermediate  SourcingScope = "intermediate"
	ScopeAdvanced      SourcingScope = "advanced"
	ScopeComprehensive SourcingScope = "comprehensive"
)

type ConceptMetadata struct {
	Subject               string   `json:"subject"`
	Subfield              string   `json:"subfield,omitempty"`
	Keywords              []string `json:"keywords,omitempty"`
	LearningObjectives    []string `json:"learning_objectives,omitempty"`
	AssessmentMethods     []string `json:"assessment_methods,omitempty"`
	RealWorldApplications []string `json:"real_world_applications,omitempty"`
}

// ConceptNode is a single teachable concept. Prerequisites is always
// rederived from surviving prerequisite edges by the validator; raw values
// from a provider are never trusted.
type ConceptNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// Difficulty is clamped to 1..10.
	Difficulty    int      `json:"difficulty"`
	Prerequisites []string `json:"prerequisites"`
	Skills        []string `json:"skills,omitempty"`
	// EstimatedLearningTime is in minutes and must be > 0.
	EstimatedLearningTime int             `json:"estimated_learning_time"`
	Importance            int             `json:"importance"`
	Metadata              ConceptMetadata `json:"metadata"`
}

type ConceptRelationship struct {
	ID            string                `json:"id"`
	FromConceptID string                `json:"from_concept_id"`
	ToConceptID   string                `json:"to_concept_id"`
	Type          RelationshipType      `json:"type"`
	Strength      float64               `json:"strength"`
	Description   string                `json:"description,omitempty"`
	Direction     RelationshipDirection `json:"direction"`
}

// IsPrerequisite reports whether the edge asserts "FromConceptID depends on
// ToConceptID".
func (r *ConceptRelationship) IsPrerequisite() bool {
	return r != nil && r.Type == RelationshipPrerequisite
}

type GraphMetadata struct {
	TotalConcepts     int     `json:"total_concepts"`
	AverageDifficulty float64 `json:"average_difficulty"`
	// EstimatedCourseLength is in whole hours.
	EstimatedCourseLength float64   `json:"estimated_course_length"`
	LastUpdated           time.Time `json:"last_updated"`
	Coverage              []string  `json:"coverage"`
	Gaps                  []string  `json:"gaps,omitempty"`
}

// KnowledgeGraph is a validated prerequisite DAG for one subject. Instances
// returned by the knowledge service always satisfy the structural
// invariants enforced by internal/knowledge.Normalize.
type KnowledgeGraph struct {
	Subject       string                 `json:"subject"`
	Domain        string                 `json:"domain,omitempty"`
	Nodes         []*ConceptNode         `json:"nodes"`
	Relationships []*ConceptRelationship `json:"relationships"`
	Metadata      GraphMetadata          `json:"metadata"`
}

type PathCheckpoint struct {
	ConceptID       string  `json:"concept_id"`
	AssessmentType  string  `json:"assessment_type"`
	RequiredMastery float64 `json:"required_mastery"`
}

// LearningPath is a stateless derived view over a cached graph; it is
// recomputed on demand and never persisted.
type LearningPath struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject"`
	// Difficulty is a derived label: beginner|intermediate|advanced.
	Difficulty string `json:"difficulty"`
	// EstimatedDuration is in hours, one decimal.
	EstimatedDuration float64          `json:"estimated_duration"`
	Concepts          []*ConceptNode   `json:"concepts"`
	Sequence          []string         `json:"sequence"`
	Checkpoints       []PathCheckpoint `json:"checkpoints"`
	AdaptationPoints  []string         `json:"adaptation_points"`
}
