package knowledge

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

// defaultLearningTimeMinutes is assigned when a provider omits or zeroes a
// concept's estimated learning time.
const defaultLearningTimeMinutes = 30

// Normalize repairs raw candidate data into a structurally valid graph.
// It never fails: dangling relationships are dropped, prerequisite cycles
// are broken greedily in input order, each node's Prerequisites is rederived
// from the surviving prerequisite edges, and difficulties are rebalanced
// until every surviving prerequisite edge points strictly downward.
//
// Inputs are not mutated; returned nodes and relationships are copies.
func Normalize(rawNodes []*types.ConceptNode, rawRels []*types.ConceptRelationship) ([]*types.ConceptNode, []*types.ConceptRelationship) {
	nodes := make([]*types.ConceptNode, 0, len(rawNodes))
	byID := make(map[string]*types.ConceptNode, len(rawNodes))
	for _, n := range rawNodes {
		if n == nil || strings.TrimSpace(n.ID) == "" {
			continue
		}
		if _, dup := byID[n.ID]; dup {
			// First occurrence of an id wins.
			continue
		}
		c := *n
		c.Difficulty = clampInt(c.Difficulty, 1, 10)
		c.Importance = clampInt(c.Importance, 1, 10)
		if c.EstimatedLearningTime <= 0 {
			c.EstimatedLearningTime = defaultLearningTimeMinutes
		}
		// Rederived below; provider values are never trusted.
		c.Prerequisites = nil
		byID[c.ID] = &c
		nodes = append(nodes, &c)
	}

	// Greedy cycle elimination over prerequisite edges, in input order.
	// Non-prerequisite edges only need endpoint validation.
	adj := make(map[string][]string)
	kept := make([]*types.ConceptRelationship, 0, len(rawRels))
	for _, r := range rawRels {
		if r == nil {
			continue
		}
		if byID[r.FromConceptID] == nil || byID[r.ToConceptID] == nil {
			continue
		}
		rc := *r
		if strings.TrimSpace(rc.ID) == "" {
			rc.ID = uuid.New().String()
		}
		if rc.Strength < 0 {
			rc.Strength = 0
		} else if rc.Strength > 1 {
			rc.Strength = 1
		}
		if rc.Direction == "" {
			rc.Direction = types.DirectionUnidirectional
		}
		if !rc.IsPrerequisite() {
			kept = append(kept, &rc)
			continue
		}
		if rc.FromConceptID == rc.ToConceptID {
			continue
		}
		if createsCycle(adj, rc.FromConceptID, rc.ToConceptID) {
			continue
		}
		adj[rc.FromConceptID] = append(adj[rc.FromConceptID], rc.ToConceptID)
		kept = append(kept, &rc)
	}

	kept = rebalanceDifficulty(byID, kept)
	rebuildPrerequisites(byID, nodes, kept)
	return nodes, kept
}

// createsCycle reports whether committing the edge from->to would close a
// directed cycle, i.e. whether from is already reachable from to.
func createsCycle(adj map[string][]string, from, to string) bool {
	stack := []string{to}
	visited := make(map[string]bool)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == from {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, adj[cur]...)
	}
	return false
}

// rebalanceDifficulty lowers prerequisite difficulties until every surviving
// prerequisite edge satisfies difficulty(prereq) < difficulty(dependent).
// The repair pass is iterated to a fixpoint (bounded by the node count so a
// chain of any length converges). Edges that cannot be repaired because the
// dependent already sits at difficulty 1 are dropped.
func rebalanceDifficulty(byID map[string]*types.ConceptNode, rels []*types.ConceptRelationship) []*types.ConceptRelationship {
	maxPasses := len(byID)
	if maxPasses < 1 {
		maxPasses = 1
	}
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, r := range rels {
			if !r.IsPrerequisite() {
				continue
			}
			from := byID[r.FromConceptID]
			to := byID[r.ToConceptID]
			if to.Difficulty >= from.Difficulty && from.Difficulty > 1 {
				to.Difficulty = from.Difficulty - 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := make([]*types.ConceptRelationship, 0, len(rels))
	for _, r := range rels {
		if r.IsPrerequisite() {
			from := byID[r.FromConceptID]
			to := byID[r.ToConceptID]
			if to.Difficulty >= from.Difficulty {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// rebuildPrerequisites makes the surviving edge list the single source of
// truth for every node's Prerequisites set.
func rebuildPrerequisites(byID map[string]*types.ConceptNode, nodes []*types.ConceptNode, rels []*types.ConceptRelationship) {
	for _, n := range nodes {
		n.Prerequisites = []string{}
	}
	seen := make(map[string]map[string]bool)
	for _, r := range rels {
		if !r.IsPrerequisite() {
			continue
		}
		n := byID[r.FromConceptID]
		if seen[n.ID] == nil {
			seen[n.ID] = make(map[string]bool)
		}
		if seen[n.ID][r.ToConceptID] {
			continue
		}
		seen[n.ID][r.ToConceptID] = true
		n.Prerequisites = append(n.Prerequisites, r.ToConceptID)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
