package knowledge

import (
	"testing"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

func TestComputeMetadataEmptyGraph(t *testing.T) {
	md := ComputeMetadata(nil)
	if md.TotalConcepts != 0 {
		t.Fatalf("TotalConcepts = %d, want 0", md.TotalConcepts)
	}
	if md.AverageDifficulty != 0 {
		t.Fatalf("AverageDifficulty = %v, want 0", md.AverageDifficulty)
	}
	if md.EstimatedCourseLength != 0 {
		t.Fatalf("EstimatedCourseLength = %v, want 0", md.EstimatedCourseLength)
	}
	if len(md.Coverage) != 0 {
		t.Fatalf("Coverage = %v, want empty", md.Coverage)
	}
}

func TestComputeMetadataAggregates(t *testing.T) {
	a := testNode("a", 3, 90)
	a.Category = "algebra"
	b := testNode("b", 4, 45)
	b.Category = "geometry"
	c := testNode("c", 4, 30)
	c.Category = "algebra"

	md := ComputeMetadata([]*types.ConceptNode{a, b, c})
	if md.TotalConcepts != 3 {
		t.Fatalf("TotalConcepts = %d, want 3", md.TotalConcepts)
	}
	// (3+4+4)/3 = 3.666..., one decimal place.
	if md.AverageDifficulty != 3.7 {
		t.Fatalf("AverageDifficulty = %v, want 3.7", md.AverageDifficulty)
	}
	// 165 minutes = 2.75h, rounded to whole hours.
	if md.EstimatedCourseLength != 3 {
		t.Fatalf("EstimatedCourseLength = %v, want 3", md.EstimatedCourseLength)
	}
	if len(md.Coverage) != 2 || md.Coverage[0] != "algebra" || md.Coverage[1] != "geometry" {
		t.Fatalf("Coverage = %v, want [algebra geometry] in first-seen order", md.Coverage)
	}
	if md.LastUpdated.IsZero() {
		t.Fatalf("LastUpdated not set")
	}
}
