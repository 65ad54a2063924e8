package dto

import "obscond/internal/core/domain"

type TransmissionResponse struct {
	RequestedAirmass float64 `json:"requested_airmass"`
	GridAirmass      float64 `json:"grid_airmass"`
	Code             int     `json:"code"`
	FileName         string  `json:"file_name"`
	Clamped          bool    `json:"clamped"`
}

func ToTransmissionResponse(s domain.TransmissionSelection) TransmissionResponse {
	return TransmissionResponse{
		RequestedAirmass: s.Requested,
		GridAirmass:      s.GridAirmass,
		Code:             s.Code,
		FileName:         s.FileName,
		Clamped:          s.Clamped,
	}
}

type BandpassResponse struct {
	Filter       string               `json:"filter"`
	Transmission TransmissionResponse `json:"transmission"`
	Samples      int                  `json:"samples"`
	Wavelen      []float64            `json:"wavelen"`
	Sb           []float64            `json:"sb"`
}

func ToBandpassResponse(filter string, sel domain.TransmissionSelection, c domain.Curve) BandpassResponse {
	return BandpassResponse{
		Filter:       filter,
		Transmission: ToTransmissionResponse(sel),
		Samples:      c.Len(),
		Wavelen:      c.Wavelen,
		Sb:           c.Sb,
	}
}
