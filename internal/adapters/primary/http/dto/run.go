package dto

import (
	"time"

	"github.com/google/uuid"

	"obscond/internal/core/domain"
)

type RunResponse struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Partitions int       `json:"partitions"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	StartedAt  string    `json:"started_at"`
	FinishedAt *string   `json:"finished_at"`
}

func ToRunResponse(r *domain.Run) RunResponse {
	resp := RunResponse{
		ID:         r.ID,
		Source:     r.Source,
		Status:     string(r.Status),
		Partitions: r.Partitions,
		Rows:       r.Rows,
		Skipped:    r.Skipped,
		Error:      r.Error,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
	}
	if r.FinishedAt != nil {
		s := r.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &s
	}
	return resp
}

type ResultResponse struct {
	ObsHistID      int64    `json:"obsHistID"`
	Filter         string   `json:"filter"`
	Airmass        *float64 `json:"airmass"`
	FiveSigmaDepth *float64 `json:"fiveSigmaDepth"`
	FieldM5        *float64 `json:"fieldM5"`
	SkyMag         *float64 `json:"skyMag"`
	Skipped        bool     `json:"skipped"`
}

func ToResultResponse(r domain.PointingResult) ResultResponse {
	return ResultResponse{
		ObsHistID:      r.ObsHistID,
		Filter:         r.Filter,
		Airmass:        finite(r.Airmass),
		FiveSigmaDepth: finite(r.FiveSigmaDepth),
		FieldM5:        finite(r.FieldM5),
		SkyMag:         finite(r.SkyMag),
		Skipped:        r.Skipped,
	}
}

type ListResultsResponse struct {
	Items      []ResultResponse `json:"items"`
	Total      int              `json:"total"`
	PageSize   int              `json:"page_size"`
	NextOffset int              `json:"next_offset"`
}
