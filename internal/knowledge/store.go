package knowledge

import (
	"container/list"
	"sort"
	"strings"
	"sync"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// DefaultMaxSubjects bounds the subject cache when no explicit limit is
// configured.
const DefaultMaxSubjects = 64

type conceptRef struct {
	subject string
	node    *types.ConceptNode
}

// GraphStore is a bounded in-memory LRU cache of validated graphs keyed by
// subject, plus a flat concept-id index spanning all cached graphs. A Put
// for an existing subject replaces the entry wholesale; concurrent rebuilds
// of the same subject resolve last-write-wins.
type GraphStore struct {
	log *logger.Logger

	mu          sync.RWMutex
	maxSubjects int
	graphs      map[string]*types.KnowledgeGraph
	lru         *list.List // front = most recently used, values are subject keys
	lruElems    map[string]*list.Element
	concepts    map[string]conceptRef
}

func NewGraphStore(baseLog *logger.Logger, maxSubjects int) *GraphStore {
	if maxSubjects <= 0 {
		maxSubjects = DefaultMaxSubjects
	}
	return &GraphStore{
		log:         baseLog.With("service", "GraphStore"),
		maxSubjects: maxSubjects,
		graphs:      make(map[string]*types.KnowledgeGraph),
		lru:         list.New(),
		lruElems:    make(map[string]*list.Element),
		concepts:    make(map[string]conceptRef),
	}
}

// Put caches a graph under its subject key, evicting the least recently
// used subject when the bound is exceeded.
func (s *GraphStore) Put(subject string, graph *types.KnowledgeGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old := s.graphs[subject]; old != nil {
		s.dropConcepts(old)
	}
	s.graphs[subject] = graph
	if el, ok := s.lruElems[subject]; ok {
		s.lru.MoveToFront(el)
	} else {
		s.lruElems[subject] = s.lru.PushFront(subject)
	}
	for _, n := range graph.Nodes {
		s.concepts[n.ID] = conceptRef{subject: subject, node: n}
	}

	for s.lru.Len() > s.maxSubjects {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(string)
		s.lru.Remove(oldest)
		delete(s.lruElems, evicted)
		if g := s.graphs[evicted]; g != nil {
			s.dropConcepts(g)
		}
		delete(s.graphs, evicted)
		s.log.Debug("evicted cached graph", "subject", evicted)
	}
}

// Get returns the cached graph for a subject, marking it recently used.
func (s *GraphStore) Get(subject string) (*types.KnowledgeGraph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[subject]
	if !ok {
		return nil, false
	}
	if el, found := s.lruElems[subject]; found {
		s.lru.MoveToFront(el)
	}
	return g, true
}

// Dependencies resolves a concept's prerequisite ids to concept nodes. The
// second return distinguishes an unknown concept id from a concept with no
// prerequisites.
func (s *GraphStore) Dependencies(conceptID string) ([]*types.ConceptNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.concepts[conceptID]
	if !ok {
		return nil, false
	}
	deps := []*types.ConceptNode{}
	for _, pid := range ref.node.Prerequisites {
		if dep, found := s.concepts[pid]; found {
			deps = append(deps, dep.node)
		}
	}
	return deps, true
}

// Search does a case-insensitive substring match over name, description and
// metadata keywords across all cached graphs. Results are grouped by
// subject in lexical order for determinism.
func (s *GraphStore) Search(query string) []*types.ConceptNode {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []*types.ConceptNode{}
	if q == "" {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	subjects := make([]string, 0, len(s.graphs))
	for subject := range s.graphs {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	for _, subject := range subjects {
		for _, n := range s.graphs[subject].Nodes {
			if conceptMatches(n, q) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Subjects lists the cached subject keys in lexical order.
func (s *GraphStore) Subjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subjects := make([]string, 0, len(s.graphs))
	for subject := range s.graphs {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

func (s *GraphStore) dropConcepts(g *types.KnowledgeGraph) {
	for _, n := range g.Nodes {
		if ref, ok := s.concepts[n.ID]; ok && ref.subject == g.Subject {
			delete(s.concepts, n.ID)
		}
	}
}

func conceptMatches(n *types.ConceptNode, q string) bool {
	if strings.Contains(strings.ToLower(n.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Description), q) {
		return true
	}
	for _, kw := range n.Metadata.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}
