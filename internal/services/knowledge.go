package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumenlearn/lumen-backend/internal/knowledge"
	pkgerrors "github.com/lumenlearn/lumen-backend/internal/pkg/errors"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// GraphCacheMirror is an optional shared cache for built graphs (Redis in
// production). The in-memory store stays authoritative; mirror failures are
// logged and otherwise ignored.
type GraphCacheMirror interface {
	Store(ctx context.Context, graph *types.KnowledgeGraph) error
	// Load returns (nil, nil) on a cache miss.
	Load(ctx context.Context, subject string) (*types.KnowledgeGraph, error)
}

type KnowledgeService interface {
	// BuildKnowledgeGraph validates raw candidate data into a cached graph.
	// When rawConcepts is nil the sourcing provider is consulted; when gaps
	// is nil the gap analyzer runs over the validated graph.
	BuildKnowledgeGraph(ctx context.Context, subject, domain string, scope types.SourcingScope, rawConcepts []*types.ConceptNode, rawRels []*types.ConceptRelationship, gaps []string) (*types.KnowledgeGraph, error)
	GetKnowledgeGraph(ctx context.Context, subject string) (*types.KnowledgeGraph, error)
	SearchConcepts(ctx context.Context, query string) ([]*types.ConceptNode, error)
	GetConceptDependencies(ctx context.Context, conceptID string) ([]*types.ConceptNode, error)
	SynthesizePaths(ctx context.Context, subject, band string, maxDurationHours float64) ([]*types.LearningPath, error)
}

type knowledgeService struct {
	log         *logger.Logger
	store       *knowledge.GraphStore
	synthesizer *knowledge.Synthesizer
	sourcing    ConceptSourcingProvider
	gapAnalyzer GapAnalysisProvider
	mirror      GraphCacheMirror
}

func NewKnowledgeService(
	baseLog *logger.Logger,
	store *knowledge.GraphStore,
	synthesizer *knowledge.Synthesizer,
	sourcing ConceptSourcingProvider,
	gapAnalyzer GapAnalysisProvider,
	mirror GraphCacheMirror,
) KnowledgeService {
	return &knowledgeService{
		log:         baseLog.With("service", "KnowledgeService"),
		store:       store,
		synthesizer: synthesizer,
		sourcing:    sourcing,
		gapAnalyzer: gapAnalyzer,
		mirror:      mirror,
	}
}

func (ks *knowledgeService) BuildKnowledgeGraph(ctx context.Context, subject, domain string, scope types.SourcingScope, rawConcepts []*types.ConceptNode, rawRels []*types.ConceptRelationship, gaps []string) (*types.KnowledgeGraph, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", pkgerrors.ErrInvalidArgument)
	}
	if rawConcepts == nil {
		if ks.sourcing == nil {
			return nil, fmt.Errorf("%w: nil concept list and no sourcing provider", pkgerrors.ErrInvalidArgument)
		}
		if scope == "" {
			scope = types.ScopeComprehensive
		}
		var err error
		rawConcepts, rawRels, err = ks.sourcing.FetchCandidates(ctx, subject, scope)
		if err != nil {
			// Provider trouble is data-quality noise: build a degenerate
			// graph from whatever we already have.
			ks.log.Warn("concept sourcing failed; building degenerate graph", "subject", subject, "error", err)
			rawConcepts = []*types.ConceptNode{}
			rawRels = nil
		}
	}

	nodes, rels := knowledge.Normalize(rawConcepts, rawRels)
	graph := &types.KnowledgeGraph{
		Subject:       subject,
		Domain:        domain,
		Nodes:         nodes,
		Relationships: rels,
		Metadata:      knowledge.ComputeMetadata(nodes),
	}

	if gaps == nil && ks.gapAnalyzer != nil {
		analyzed, err := ks.gapAnalyzer.Analyze(ctx, graph)
		if err != nil {
			ks.log.Warn("gap analysis failed", "subject", subject, "error", err)
		} else {
			gaps = analyzed
		}
	}
	graph.Metadata.Gaps = gaps

	ks.store.Put(subject, graph)
	if ks.mirror != nil {
		if err := ks.mirror.Store(ctx, graph); err != nil {
			ks.log.Warn("graph mirror write failed", "subject", subject, "error", err)
		}
	}

	ks.log.Info("knowledge graph built",
		"subject", subject,
		"concepts", len(nodes),
		"relationships", len(rels),
		"gaps", len(graph.Metadata.Gaps),
	)
	return graph, nil
}

func (ks *knowledgeService) GetKnowledgeGraph(ctx context.Context, subject string) (*types.KnowledgeGraph, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", pkgerrors.ErrInvalidArgument)
	}
	if g, ok := ks.store.Get(subject); ok {
		return g, nil
	}
	if ks.mirror != nil {
		g, err := ks.mirror.Load(ctx, subject)
		if err != nil {
			ks.log.Warn("graph mirror read failed", "subject", subject, "error", err)
		} else if g != nil {
			ks.store.Put(subject, g)
			return g, nil
		}
	}
	return nil, fmt.Errorf("graph for subject %q: %w", subject, pkgerrors.ErrNotFound)
}

func (ks *knowledgeService) SearchConcepts(ctx context.Context, query string) ([]*types.ConceptNode, error) {
	return ks.store.Search(query), nil
}

func (ks *knowledgeService) GetConceptDependencies(ctx context.Context, conceptID string) ([]*types.ConceptNode, error) {
	conceptID = strings.TrimSpace(conceptID)
	if conceptID == "" {
		return nil, fmt.Errorf("%w: empty concept id", pkgerrors.ErrInvalidArgument)
	}
	deps, ok := ks.store.Dependencies(conceptID)
	if !ok {
		return nil, fmt.Errorf("concept %q: %w", conceptID, pkgerrors.ErrNotFound)
	}
	return deps, nil
}

func (ks *knowledgeService) SynthesizePaths(ctx context.Context, subject, band string, maxDurationHours float64) ([]*types.LearningPath, error) {
	graph, err := ks.GetKnowledgeGraph(ctx, subject)
	if err != nil {
		return nil, err
	}
	return ks.synthesizer.SynthesizePaths(ctx, graph, band, maxDurationHours)
}
