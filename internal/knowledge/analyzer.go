package knowledge

import (
	"math"
	"time"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

// ComputeMetadata aggregates node-level stats for a validated graph. It is
// a pure function; relationships do not contribute to any metric.
func ComputeMetadata(nodes []*types.ConceptNode) types.GraphMetadata {
	md := types.GraphMetadata{
		TotalConcepts: len(nodes),
		Coverage:      []string{},
		LastUpdated:   time.Now().UTC(),
	}
	if len(nodes) == 0 {
		return md
	}

	totalDifficulty := 0
	totalMinutes := 0
	seenCategory := make(map[string]bool)
	for _, n := range nodes {
		totalDifficulty += n.Difficulty
		totalMinutes += n.EstimatedLearningTime
		if n.Category != "" && !seenCategory[n.Category] {
			seenCategory[n.Category] = true
			md.Coverage = append(md.Coverage, n.Category)
		}
	}

	md.AverageDifficulty = math.Round(float64(totalDifficulty)/float64(len(nodes))*10) / 10
	md.EstimatedCourseLength = math.Round(float64(totalMinutes) / 60)
	return md
}
