package handlers

import (
	"net/http"

	"obscond/internal/adapters/primary/http/dto"
	"obscond/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ComputeDepth(c *gin.Context) {
	var req dto.DepthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skyMag, depth := req.Wants()
	res, err := h.skyCalc.Calculate(c.Request.Context(), req.ToPointing(), services.CalcOptions{
		SkyMags: skyMag,
		Depths:  depth,
	})
	if err != nil {
		log.WithError(err).WithField("filter", req.Filter).Error("compute depth failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepthResponse(res))
}
