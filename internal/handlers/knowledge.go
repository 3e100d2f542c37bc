package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/services"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type KnowledgeHandler struct {
	log              *logger.Logger
	knowledgeService services.KnowledgeService
}

func NewKnowledgeHandler(log *logger.Logger, knowledgeService services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{
		log:              log.With("handler", "KnowledgeHandler"),
		knowledgeService: knowledgeService,
	}
}

type buildGraphRequest struct {
	Domain        string                       `json:"domain"`
	Scope         types.SourcingScope          `json:"scope"`
	Concepts      []*types.ConceptNode         `json:"concepts"`
	Relationships []*types.ConceptRelationship `json:"relationships"`
	Gaps          []string                     `json:"gaps"`
}

// BuildGraph validates inline candidate data (or provider output when the
// body carries none) into a cached knowledge graph.
func (h *KnowledgeHandler) BuildGraph(c *gin.Context) {
	subject := c.Param("subject")

	var req buildGraphRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request_body", err)
			return
		}
	}

	graph, err := h.knowledgeService.BuildKnowledgeGraph(
		c.Request.Context(), subject, req.Domain, req.Scope,
		req.Concepts, req.Relationships, req.Gaps,
	)
	if err != nil {
		h.log.Error("BuildGraph failed", "error", err, "subject", subject)
		respondServiceError(c, "build_graph_failed", err)
		return
	}
	RespondOK(c, gin.H{"graph": graph})
}

func (h *KnowledgeHandler) GetGraph(c *gin.Context) {
	subject := c.Param("subject")
	graph, err := h.knowledgeService.GetKnowledgeGraph(c.Request.Context(), subject)
	if err != nil {
		respondServiceError(c, "graph_not_found", err)
		return
	}
	RespondOK(c, gin.H{"graph": graph})
}

func (h *KnowledgeHandler) SearchConcepts(c *gin.Context) {
	query := c.Query("q")
	concepts, err := h.knowledgeService.SearchConcepts(c.Request.Context(), query)
	if err != nil {
		h.log.Error("SearchConcepts failed", "error", err, "query", query)
		respondServiceError(c, "search_failed", err)
		return
	}
	RespondOK(c, gin.H{"concepts": concepts})
}

func (h *KnowledgeHandler) GetConceptDependencies(c *gin.Context) {
	conceptID := c.Param("id")
	deps, err := h.knowledgeService.GetConceptDependencies(c.Request.Context(), conceptID)
	if err != nil {
		respondServiceError(c, "concept_not_found", err)
		return
	}
	RespondOK(c, gin.H{"dependencies": deps})
}

type synthesizePathsRequest struct {
	Difficulty       string  `json:"difficulty" binding:"required"`
	MaxDurationHours float64 `json:"max_duration_hours"`
}

// SynthesizePaths derives the three strategy paths for a cached graph. Any
// of them may come back with an empty concept list when the budget is
// infeasible.
func (h *KnowledgeHandler) SynthesizePaths(c *gin.Context) {
	subject := c.Param("subject")

	var req synthesizePathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", err)
		return
	}

	paths, err := h.knowledgeService.SynthesizePaths(c.Request.Context(), subject, req.Difficulty, req.MaxDurationHours)
	if err != nil {
		h.log.Error("SynthesizePaths failed", "error", err, "subject", subject, "difficulty", req.Difficulty)
		respondServiceError(c, "synthesize_paths_failed", err)
		return
	}
	RespondOK(c, gin.H{"paths": paths})
}
