package skymodel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"obscond/internal/config"
	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type skyModelClient struct {
	baseURL string
	client  *http.Client
}

// NewSkyModelClient creates an HTTP client for the sky brightness service.
func NewSkyModelClient(cfg *config.SkyModelConfig) ports.SkyModel {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &skyModelClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Sky model API request and response structures
type conditionsRequest struct {
	RA     float64 `json:"ra"`
	Dec    float64 `json:"dec"`
	MJD    float64 `json:"mjd"`
	Filter string  `json:"filter,omitempty"`
}

type geometryRequest struct {
	RA   float64   `json:"ra"`
	Dec  float64   `json:"dec"`
	MJDs []float64 `json:"mjds"`
}

type position struct {
	Airmass   float64 `json:"airmass"`
	Alt       float64 `json:"alt"`
	Az        float64 `json:"az"`
	MoonRA    float64 `json:"moon_ra"`
	MoonDec   float64 `json:"moon_dec"`
	MoonAlt   float64 `json:"moon_alt"`
	MoonPhase float64 `json:"moon_phase"`
	SunAlt    float64 `json:"sun_alt"`
}

type conditionsResponse struct {
	Airmass   float64   `json:"airmass"`
	Alt       float64   `json:"alt"`
	Az        float64   `json:"az"`
	MoonRA    float64   `json:"moon_ra"`
	MoonDec   float64   `json:"moon_dec"`
	MoonAlt   float64   `json:"moon_alt"`
	MoonPhase float64   `json:"moon_phase"`
	SunAlt    float64   `json:"sun_alt"`
	Wavelen   []float64 `json:"wavelen"`
	Flambda   []float64 `json:"flambda"`
}

type geometryResponse struct {
	Positions []position `json:"positions"`
}

func (p position) toDomain() domain.SkyConditions {
	return domain.SkyConditions{
		Airmass:   p.Airmass,
		Alt:       p.Alt,
		Az:        p.Az,
		MoonRA:    p.MoonRA,
		MoonDec:   p.MoonDec,
		MoonAlt:   p.MoonAlt,
		MoonPhase: p.MoonPhase,
		SunAlt:    p.SunAlt,
	}
}

func (c *skyModelClient) Conditions(ctx context.Context, q domain.SkyQuery) (*domain.SkyConditions, error) {
	var resp conditionsResponse
	req := conditionsRequest{RA: q.RA, Dec: q.Dec, MJD: q.MJD, Filter: q.Filter}
	if err := c.post(ctx, "/api/v1/sky/conditions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Wavelen) == 0 || len(resp.Wavelen) != len(resp.Flambda) {
		return nil, fmt.Errorf("%w: spectrum has %d wavelengths and %d fluxes",
			domain.ErrSkyModelUnavailable, len(resp.Wavelen), len(resp.Flambda))
	}

	return &domain.SkyConditions{
		Wavelen:   resp.Wavelen,
		Flambda:   resp.Flambda,
		Airmass:   resp.Airmass,
		Alt:       resp.Alt,
		Az:        resp.Az,
		MoonRA:    resp.MoonRA,
		MoonDec:   resp.MoonDec,
		MoonAlt:   resp.MoonAlt,
		MoonPhase: resp.MoonPhase,
		SunAlt:    resp.SunAlt,
	}, nil
}

func (c *skyModelClient) Geometry(ctx context.Context, ra, dec float64, mjds []float64) ([]domain.SkyConditions, error) {
	var resp geometryResponse
	if err := c.post(ctx, "/api/v1/sky/geometry", geometryRequest{RA: ra, Dec: dec, MJDs: mjds}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Positions) != len(mjds) {
		return nil, fmt.Errorf("%w: %d positions for %d times",
			domain.ErrSkyModelUnavailable, len(resp.Positions), len(mjds))
	}

	out := make([]domain.SkyConditions, len(resp.Positions))
	for i, p := range resp.Positions {
		out[i] = p.toDomain()
	}
	return out, nil
}

func (c *skyModelClient) post(ctx context.Context, path string, body, into interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode sky model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSkyModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrSkyModelUnavailable, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrSkyModelUnavailable, path, err)
	}
	return nil
}
