package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"obscond/internal/adapters/primary/http/dto"
	"obscond/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSeeing(c *gin.Context) {
	h.weatherValues(c, "seeing")
}

func (h *Handler) GetCloud(c *gin.Context) {
	h.weatherValues(c, "cloud")
}

func (h *Handler) weatherValues(c *gin.Context, quantity string) {
	if h.weather == nil {
		mapDomainError(c, domain.ErrWeatherUnavailable)
		return
	}

	times, err := floatList(c.QueryArray("t"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var startDate *float64
	if raw := c.Query("start_date"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		startDate = &v
	}
	method := c.DefaultQuery("method", domain.InterpLinear)

	var values []float64
	if quantity == "seeing" {
		values, err = h.weather.Seeing(times, startDate, method)
	} else {
		values, err = h.weather.CloudFraction(times, startDate, method)
	}
	if err != nil {
		mapDomainError(c, err)
		return
	}

	if startDate == nil {
		startDate = h.weather.StartDate
	}
	c.JSON(http.StatusOK, dto.WeatherResponse{
		Quantity:  quantity,
		StartDate: startDate,
		Times:     times,
		Values:    values,
	})
}

// floatList parses repeated and comma separated query values.
func floatList(raw []string) ([]float64, error) {
	out := []float64{}
	for _, r := range raw {
		for _, f := range strings.Split(r, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid time %q", f)
			}
			out = append(out, v)
		}
	}
	return out, nil
}
