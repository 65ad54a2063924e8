package handlers

import (
	"net/http"

	"obscond/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// maxPotentialTimes bounds the time grid of one request.
const maxPotentialTimes = 100000

func (h *Handler) EvaluatePotential(c *gin.Context) {
	var req dto.PotentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	times, ok := req.Times()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either mjds or start, end and a positive step are required"})
		return
	}
	if len(times) > maxPotentialTimes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many times requested"})
		return
	}

	p, err := h.potentialSvc.Evaluate(c.Request.Context(), *req.RA, *req.Dec, times, req.Constraints())
	if err != nil {
		log.WithError(err).Error("evaluate potential failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPotentialResponse(p))
}
