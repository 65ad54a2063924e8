package handlers

import (
	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	bandpassSvc  *services.BandpassService
	skyCalc      *services.SkyCalculator
	potentialSvc *services.PotentialService
	weather      *domain.WeatherData
	results      ports.ResultRepository
}

// New builds the API handler. weather and results may be nil when the server
// runs without weather histories or a result store; their routes then answer
// 503.
func New(
	bandpassSvc *services.BandpassService,
	skyCalc *services.SkyCalculator,
	potentialSvc *services.PotentialService,
	weather *domain.WeatherData,
	results ports.ResultRepository,
) *Handler {
	return &Handler{
		bandpassSvc:  bandpassSvc,
		skyCalc:      skyCalc,
		potentialSvc: potentialSvc,
		weather:      weather,
		results:      results,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Atmosphere and bandpasses
	r.GET("/transmission", h.GetTransmission)
	r.GET("/bandpasses", h.ListFilters)
	r.GET("/bandpasses/:filter", h.GetBandpass)

	// Sky brightness and depth
	r.POST("/depth", h.ComputeDepth)

	// Observation potential
	r.POST("/potential", h.EvaluatePotential)

	// Weather
	r.GET("/weather/seeing", h.GetSeeing)
	r.GET("/weather/cloud", h.GetCloud)

	// Recalculation runs
	r.GET("/runs/:id", h.GetRun)
	r.GET("/runs/:id/results", h.ListRunResults)
}
