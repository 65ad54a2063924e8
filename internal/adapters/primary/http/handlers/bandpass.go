package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"obscond/internal/adapters/primary/http/dto"
	"obscond/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetTransmission(c *gin.Context) {
	airmass, err := airmassParam(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	sel, err := h.bandpassSvc.Select(airmass)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransmissionResponse(sel))
}

func (h *Handler) ListFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filters": h.bandpassSvc.Filters()})
}

func (h *Handler) GetBandpass(c *gin.Context) {
	filter := c.Param("filter")
	airmass, err := airmassParam(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	sel, err := h.bandpassSvc.Select(airmass)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	curve, err := h.bandpassSvc.BandpassForAirmass(c.Request.Context(), filter, airmass)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"filter":  filter,
			"airmass": airmass,
		}).Error("compose bandpass failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBandpassResponse(filter, sel, curve))
}

// airmassParam reads ?airmass=, defaulting to the standard airmass.
func airmassParam(c *gin.Context) (float64, error) {
	raw, ok := c.GetQuery("airmass")
	if !ok || raw == "" {
		return domain.DefaultAirmass, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAirmass, raw)
	}
	return v, nil
}
