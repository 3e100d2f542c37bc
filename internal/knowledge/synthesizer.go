package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/lumenlearn/lumen-backend/internal/pkg/errors"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// Strategy names one of the three fixed path-synthesis heuristics.
type Strategy string

const (
	StrategyFoundationFirst   Strategy = "foundation_first"
	StrategyApplicationDriven Strategy = "application_driven"
	StrategyBalanced          Strategy = "balanced"
)

// Strategies is the closed set, in emission order.
var Strategies = []Strategy{
	StrategyFoundationFirst,
	StrategyApplicationDriven,
	StrategyBalanced,
}

var strategyDescriptions = map[Strategy]string{
	StrategyFoundationFirst:   "Prerequisites first: follows the dependency structure of the graph bottom-up.",
	StrategyApplicationDriven: "Leads with the concepts that have the most real-world applications.",
	StrategyBalanced:          "Blends importance, applicability and approachability.",
}

// Synthesizer derives learning paths from a validated knowledge graph. It
// performs no mutation, so a single instance is safe for concurrent use.
type Synthesizer struct {
	log *logger.Logger
	cfg SynthesisConfig
}

func NewSynthesizer(baseLog *logger.Logger, cfg SynthesisConfig) *Synthesizer {
	if cfg.Bands == nil {
		cfg = DefaultSynthesisConfig()
	}
	return &Synthesizer{
		log: baseLog.With("service", "Synthesizer"),
		cfg: cfg,
	}
}

// SynthesizePaths returns exactly one candidate path per strategy. A
// candidate with an empty concept list means the budget was infeasible for
// that strategy, not an error. An unknown band or a negative budget is a
// contract violation.
func (s *Synthesizer) SynthesizePaths(ctx context.Context, graph *types.KnowledgeGraph, band string, maxDurationHours float64) ([]*types.LearningPath, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: nil graph", pkgerrors.ErrInvalidArgument)
	}
	if maxDurationHours < 0 {
		return nil, fmt.Errorf("%w: negative duration %v", pkgerrors.ErrInvalidArgument, maxDurationHours)
	}
	b, ok := s.cfg.Bands[band]
	if !ok {
		return nil, fmt.Errorf("%w: unknown difficulty band %q", pkgerrors.ErrInvalidArgument, band)
	}

	paths := make([]*types.LearningPath, len(Strategies))
	g, _ := errgroup.WithContext(ctx)
	for i, strat := range Strategies {
		g.Go(func() error {
			paths[i] = s.buildPath(graph, strat, band, b, maxDurationHours)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Synthesizer) buildPath(graph *types.KnowledgeGraph, strat Strategy, bandName string, band Band, maxDurationHours float64) *types.LearningPath {
	filtered := make([]*types.ConceptNode, 0, len(graph.Nodes))
	inBand := make(map[string]bool, len(graph.Nodes))
	for _, n := range graph.Nodes {
		if band.Contains(n.Difficulty) {
			filtered = append(filtered, n)
			inBand[n.ID] = true
		}
	}

	ordered := s.orderConcepts(filtered, inBand, strat)

	// Greedy walk over the pre-ranked order. Once a concept is cut for
	// budget, anything depending on it inside the band is cut too, so the
	// emitted sequence stays prerequisite-safe.
	budgetMinutes := maxDurationHours * 60
	selected := make([]*types.ConceptNode, 0, len(ordered))
	selectedIDs := make(map[string]bool, len(ordered))
	totalMinutes := 0
	for _, n := range ordered {
		if float64(totalMinutes+n.EstimatedLearningTime) > budgetMinutes {
			continue
		}
		if !prereqsEmitted(n, inBand, selectedIDs) {
			continue
		}
		selected = append(selected, n)
		selectedIDs[n.ID] = true
		totalMinutes += n.EstimatedLearningTime
	}

	return s.derivePath(graph, strat, bandName, selected, totalMinutes)
}

// orderConcepts ranks the filtered nodes by the strategy heuristic, then
// emits them with a topological guard: a node is emitted only once every
// prerequisite of it inside the filtered set has been emitted. For
// foundation_first the rank is the input order, which makes the emission
// exactly Kahn's algorithm with input-order tie-break; for the other two
// strategies the guard keeps heuristic orderings prerequisite-safe.
func (s *Synthesizer) orderConcepts(filtered []*types.ConceptNode, inBand map[string]bool, strat Strategy) []*types.ConceptNode {
	ranked := make([]*types.ConceptNode, len(filtered))
	copy(ranked, filtered)

	switch strat {
	case StrategyApplicationDriven:
		sort.SliceStable(ranked, func(i, j int) bool {
			return applicationScore(ranked[i]) > applicationScore(ranked[j])
		})
	case StrategyBalanced:
		w := s.cfg.Balanced
		sort.SliceStable(ranked, func(i, j int) bool {
			return s.balancedScore(ranked[i], w) > s.balancedScore(ranked[j], w)
		})
	}

	emitted := make(map[string]bool, len(ranked))
	order := make([]*types.ConceptNode, 0, len(ranked))
	for len(order) < len(ranked) {
		progressed := false
		for _, n := range ranked {
			if emitted[n.ID] || !prereqsEmitted(n, inBand, emitted) {
				continue
			}
			emitted[n.ID] = true
			order = append(order, n)
			progressed = true
			break
		}
		if !progressed {
			// Unreachable on a validated DAG; bail rather than spin.
			s.log.Warn("topological emission stalled", "strategy", strat, "emitted", len(order), "filtered", len(ranked))
			break
		}
	}
	return order
}

func prereqsEmitted(n *types.ConceptNode, inBand map[string]bool, emitted map[string]bool) bool {
	for _, p := range n.Prerequisites {
		if inBand[p] && !emitted[p] {
			return false
		}
	}
	return true
}

func applicationScore(n *types.ConceptNode) float64 {
	return float64(len(n.Metadata.RealWorldApplications) * n.Importance)
}

func (s *Synthesizer) balancedScore(n *types.ConceptNode, w BalancedWeights) float64 {
	return w.Importance*float64(n.Importance) +
		w.Applications*float64(len(n.Metadata.RealWorldApplications)) +
		w.Ease*float64(10-n.Difficulty)
}

func (s *Synthesizer) derivePath(graph *types.KnowledgeGraph, strat Strategy, bandName string, selected []*types.ConceptNode, totalMinutes int) *types.LearningPath {
	path := &types.LearningPath{
		ID:                uuid.New().String(),
		Name:              string(strat),
		Description:       strategyDescriptions[strat],
		Subject:           graph.Subject,
		Difficulty:        bandName,
		EstimatedDuration: math.Round(float64(totalMinutes)/60*10) / 10,
		Concepts:          selected,
		Sequence:          make([]string, 0, len(selected)),
		Checkpoints:       []types.PathCheckpoint{},
		AdaptationPoints:  []string{},
	}

	if len(selected) > 0 {
		totalDifficulty := 0
		for _, n := range selected {
			totalDifficulty += n.Difficulty
		}
		mean := float64(totalDifficulty) / float64(len(selected))
		switch {
		case mean <= 3:
			path.Difficulty = "beginner"
		case mean <= 7:
			path.Difficulty = "intermediate"
		default:
			path.Difficulty = "advanced"
		}
	}

	for _, n := range selected {
		path.Sequence = append(path.Sequence, n.ID)
	}

	interval := s.cfg.CheckpointInterval
	for i := interval - 1; i < len(selected); i += interval {
		n := selected[i]
		assessment := s.cfg.DefaultAssessment
		if len(n.Metadata.AssessmentMethods) > 0 {
			assessment = n.Metadata.AssessmentMethods[0]
		}
		path.Checkpoints = append(path.Checkpoints, types.PathCheckpoint{
			ConceptID:       n.ID,
			AssessmentType:  assessment,
			RequiredMastery: s.cfg.RequiredMastery,
		})
	}

	// Adaptation points are concepts with more than one surviving forward
	// prerequisite edge anywhere in the source graph.
	forward := make(map[string]int)
	for _, r := range graph.Relationships {
		if r.IsPrerequisite() {
			forward[r.FromConceptID]++
		}
	}
	for _, n := range selected {
		if forward[n.ID] > 1 {
			path.AdaptationPoints = append(path.AdaptationPoints, n.ID)
		}
	}

	return path
}
