package knowledge

import (
	"testing"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

func testNode(id string, difficulty, minutes int) *types.ConceptNode {
	return &types.ConceptNode{
		ID:                    id,
		Name:                  "Concept " + id,
		Difficulty:            difficulty,
		EstimatedLearningTime: minutes,
		Importance:            5,
	}
}

func prereq(id, from, to string) *types.ConceptRelationship {
	return &types.ConceptRelationship{
		ID:            id,
		FromConceptID: from,
		ToConceptID:   to,
		Type:          types.RelationshipPrerequisite,
		Strength:      0.9,
		Direction:     types.DirectionUnidirectional,
	}
}

// isAcyclic verifies the prerequisite subgraph with a Kahn count.
func isAcyclic(nodes []*types.ConceptNode, rels []*types.ConceptRelationship) bool {
	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string)
	for _, n := range nodes {
		indegree[n.ID] = 0
	}
	for _, r := range rels {
		if !r.IsPrerequisite() {
			continue
		}
		// from depends on to: to must come first, so to -> from.
		indegree[r.FromConceptID]++
		dependents[r.ToConceptID] = append(dependents[r.ToConceptID], r.FromConceptID)
	}
	queue := []string{}
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	emitted := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		emitted++
		for _, dep := range dependents[cur] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	return emitted == len(nodes)
}

func TestNormalizeDropsDanglingRelationships(t *testing.T) {
	nodes := []*types.ConceptNode{testNode("a", 5, 30), testNode("b", 3, 30)}
	rels := []*types.ConceptRelationship{
		prereq("r1", "a", "b"),
		prereq("r2", "a", "ghost"),
		prereq("r3", "ghost", "b"),
	}
	_, outRels := Normalize(nodes, rels)
	if len(outRels) != 1 {
		t.Fatalf("expected 1 surviving relationship, got %d", len(outRels))
	}
	if outRels[0].ID != "r1" {
		t.Fatalf("expected r1 to survive, got %s", outRels[0].ID)
	}
}

func TestNormalizeBreaksThreeCycle(t *testing.T) {
	nodes := []*types.ConceptNode{testNode("a", 9, 30), testNode("b", 6, 30), testNode("c", 3, 30)}
	rels := []*types.ConceptRelationship{
		prereq("r1", "a", "b"),
		prereq("r2", "b", "c"),
		prereq("r3", "c", "a"),
	}
	outNodes, outRels := Normalize(nodes, rels)
	if len(outRels) > 2 {
		t.Fatalf("cycle not broken: %d edges survived", len(outRels))
	}
	inputIDs := map[string]bool{"r1": true, "r2": true, "r3": true}
	for _, r := range outRels {
		if !inputIDs[r.ID] {
			t.Fatalf("surviving edge %s is not a subset of the input", r.ID)
		}
	}
	if !isAcyclic(outNodes, outRels) {
		t.Fatalf("prerequisite subgraph still cyclic")
	}
}

func TestNormalizeCycleBreakIsInputOrderGreedy(t *testing.T) {
	nodes := []*types.ConceptNode{testNode("a", 9, 30), testNode("b", 6, 30), testNode("c", 3, 30)}
	rels := []*types.ConceptRelationship{
		prereq("r1", "a", "b"),
		prereq("r2", "b", "c"),
		prereq("r3", "c", "a"),
	}
	_, outRels := Normalize(nodes, rels)
	survivors := map[string]bool{}
	for _, r := range outRels {
		survivors[r.ID] = true
	}
	// The first two edges commit before the cycle closes; r3 is the one
	// that gets discarded.
	if !survivors["r1"] || !survivors["r2"] || survivors["r3"] {
		t.Fatalf("expected r1,r2 kept and r3 dropped, got %v", survivors)
	}
}

func TestNormalizeRebuildsPrerequisitesFromEdges(t *testing.T) {
	a := testNode("a", 7, 30)
	a.Prerequisites = []string{"stale", "b", "b"}
	b := testNode("b", 3, 30)
	b.Prerequisites = []string{"also-stale"}
	outNodes, _ := Normalize(
		[]*types.ConceptNode{a, b},
		[]*types.ConceptRelationship{prereq("r1", "a", "b")},
	)
	byID := map[string]*types.ConceptNode{}
	for _, n := range outNodes {
		byID[n.ID] = n
	}
	if got := byID["a"].Prerequisites; len(got) != 1 || got[0] != "b" {
		t.Fatalf("a.Prerequisites = %v, want [b]", got)
	}
	if got := byID["b"].Prerequisites; len(got) != 0 {
		t.Fatalf("b.Prerequisites = %v, want empty", got)
	}
}

func TestNormalizeDifficultyInvariantHoldsOnLongChains(t *testing.T) {
	// d depends on c depends on b depends on a, with every difficulty
	// inverted so a single local pass would leave violations behind.
	nodes := []*types.ConceptNode{
		testNode("a", 9, 30),
		testNode("b", 9, 30),
		testNode("c", 9, 30),
		testNode("d", 9, 30),
	}
	rels := []*types.ConceptRelationship{
		prereq("r1", "b", "a"),
		prereq("r2", "c", "b"),
		prereq("r3", "d", "c"),
	}
	outNodes, outRels := Normalize(nodes, rels)
	byID := map[string]*types.ConceptNode{}
	for _, n := range outNodes {
		byID[n.ID] = n
	}
	for _, r := range outRels {
		if !r.IsPrerequisite() {
			continue
		}
		from, to := byID[r.FromConceptID], byID[r.ToConceptID]
		if to.Difficulty >= from.Difficulty {
			t.Fatalf("edge %s: difficulty(%s)=%d not < difficulty(%s)=%d",
				r.ID, to.ID, to.Difficulty, from.ID, from.Difficulty)
		}
	}
}

func TestNormalizeDropsUnrepairableDifficultyEdges(t *testing.T) {
	// The dependent already sits at difficulty 1, so the prerequisite can
	// never be strictly easier.
	nodes := []*types.ConceptNode{testNode("a", 1, 30), testNode("b", 5, 30)}
	rels := []*types.ConceptRelationship{prereq("r1", "a", "b")}
	outNodes, outRels := Normalize(nodes, rels)
	if len(outRels) != 0 {
		t.Fatalf("expected unrepairable edge to be dropped, got %d edges", len(outRels))
	}
	for _, n := range outNodes {
		if len(n.Prerequisites) != 0 {
			t.Fatalf("node %s kept prerequisites after edge drop: %v", n.ID, n.Prerequisites)
		}
	}
}

func TestNormalizeKeepsAnnotativeEdgesOutsideCycleCheck(t *testing.T) {
	nodes := []*types.ConceptNode{testNode("a", 7, 30), testNode("b", 3, 30)}
	related := &types.ConceptRelationship{
		ID:            "rel1",
		FromConceptID: "b",
		ToConceptID:   "a",
		Type:          types.RelationshipRelated,
		Strength:      0.5,
		Direction:     types.DirectionBidirectional,
	}
	rels := []*types.ConceptRelationship{prereq("r1", "a", "b"), related}
	_, outRels := Normalize(nodes, rels)
	if len(outRels) != 2 {
		t.Fatalf("expected both edges to survive, got %d", len(outRels))
	}
}

func TestNormalizeRepairsNodeFields(t *testing.T) {
	cases := []struct {
		name         string
		node         *types.ConceptNode
		wantDiff     int
		wantMinutes  int
		wantImport   int
	}{
		{
			name:        "difficulty_above_range",
			node:        &types.ConceptNode{ID: "x", Difficulty: 42, EstimatedLearningTime: 10, Importance: 4},
			wantDiff:    10,
			wantMinutes: 10,
			wantImport:  4,
		},
		{
			name:        "difficulty_below_range",
			node:        &types.ConceptNode{ID: "x", Difficulty: -3, EstimatedLearningTime: 10, Importance: 4},
			wantDiff:    1,
			wantMinutes: 10,
			wantImport:  4,
		},
		{
			name:        "missing_learning_time",
			node:        &types.ConceptNode{ID: "x", Difficulty: 5, EstimatedLearningTime: 0, Importance: 11},
			wantDiff:    5,
			wantMinutes: defaultLearningTimeMinutes,
			wantImport:  10,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outNodes, _ := Normalize([]*types.ConceptNode{tc.node}, nil)
			if len(outNodes) != 1 {
				t.Fatalf("expected 1 node, got %d", len(outNodes))
			}
			n := outNodes[0]
			if n.Difficulty != tc.wantDiff || n.EstimatedLearningTime != tc.wantMinutes || n.Importance != tc.wantImport {
				t.Fatalf("got (diff=%d, minutes=%d, importance=%d), want (%d, %d, %d)",
					n.Difficulty, n.EstimatedLearningTime, n.Importance,
					tc.wantDiff, tc.wantMinutes, tc.wantImport)
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := testNode("a", 42, 0)
	Normalize([]*types.ConceptNode{raw}, nil)
	if raw.Difficulty != 42 || raw.EstimatedLearningTime != 0 {
		t.Fatalf("input node mutated: %+v", raw)
	}
}
