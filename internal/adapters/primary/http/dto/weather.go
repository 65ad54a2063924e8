package dto

type WeatherResponse struct {
	Quantity  string    `json:"quantity"`
	StartDate *float64  `json:"start_date,omitempty"`
	Times     []float64 `json:"times"`
	Values    []float64 `json:"values"`
}
