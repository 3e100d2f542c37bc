package services

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// GapAnalysisProvider inspects a validated graph and reports human-readable
// coverage gaps. The strings are merged verbatim into the graph metadata.
type GapAnalysisProvider interface {
	Analyze(ctx context.Context, graph *types.KnowledgeGraph) ([]string, error)
}

type heuristicGapAnalyzer struct {
	log *logger.Logger
}

func NewHeuristicGapAnalyzer(baseLog *logger.Logger) GapAnalysisProvider {
	return &heuristicGapAnalyzer{log: baseLog.With("service", "GapAnalyzer")}
}

func (a *heuristicGapAnalyzer) Analyze(ctx context.Context, graph *types.KnowledgeGraph) ([]string, error) {
	gaps := []string{}
	if graph == nil || len(graph.Nodes) == 0 {
		return gaps, nil
	}

	byID := make(map[string]*types.ConceptNode, len(graph.Nodes))
	connected := make(map[string]bool)
	categoryCount := make(map[string]int)
	categoryOrder := []string{}
	for _, n := range graph.Nodes {
		byID[n.ID] = n
		if n.Category != "" {
			if categoryCount[n.Category] == 0 {
				categoryOrder = append(categoryOrder, n.Category)
			}
			categoryCount[n.Category]++
		}
	}
	for _, r := range graph.Relationships {
		connected[r.FromConceptID] = true
		connected[r.ToConceptID] = true
	}

	for _, cat := range categoryOrder {
		if categoryCount[cat] == 1 {
			gaps = append(gaps, fmt.Sprintf("category %q is covered by a single concept", cat))
		}
	}
	for _, n := range graph.Nodes {
		if !connected[n.ID] {
			gaps = append(gaps, fmt.Sprintf("concept %q has no relationships to the rest of the graph", n.Name))
		}
	}
	for _, r := range graph.Relationships {
		if !r.IsPrerequisite() {
			continue
		}
		from, to := byID[r.FromConceptID], byID[r.ToConceptID]
		if from != nil && to != nil && from.Difficulty-to.Difficulty > 3 {
			gaps = append(gaps, fmt.Sprintf("steep difficulty jump from %q (%d) to %q (%d); an intermediate concept may be missing",
				to.Name, to.Difficulty, from.Name, from.Difficulty))
		}
	}

	return gaps, nil
}
