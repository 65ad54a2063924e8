package handlers

import (
	"net/http"
	"strconv"

	"obscond/internal/adapters/primary/http/dto"
	"obscond/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) GetRun(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	run, err := h.results.GetRun(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *Handler) ListRunResults(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	results, err := h.results.ListResults(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	start := min(offset, len(results))
	end := min(start+limit, len(results))
	items := make([]dto.ResultResponse, 0, end-start)
	for _, r := range results[start:end] {
		items = append(items, dto.ToResultResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListResultsResponse{
		Items:      items,
		Total:      len(results),
		PageSize:   limit,
		NextOffset: start + len(items),
	})
}

func (h *Handler) runID(c *gin.Context) (uuid.UUID, bool) {
	if h.results == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no result store configured"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRunID.Error()})
		return uuid.Nil, false
	}
	return id, true
}
