package atmosphere

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"

	"obscond/internal/adapters/secondary/tabular"
	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/metrics"
)

// StandardFileName is the reference atmosphere used for total bandpasses.
const StandardFileName = "atmos_std.dat"

type dirStore struct {
	dir string
}

// NewDirStore reads atmosphere tables from dir on every Load.
func NewDirStore(dir string) ports.TransmissionStore {
	return &dirStore{dir: dir}
}

func (s *dirStore) Load(ctx context.Context, code int) (domain.Curve, error) {
	if err := ctx.Err(); err != nil {
		return domain.Curve{}, err
	}
	return LoadFile(filepath.Join(s.dir, domain.TransmissionFileName(code)))
}

// LoadFile reads a two-column (wavelength nm, transmission) table.
func LoadFile(path string) (domain.Curve, error) {
	tbl, err := tabular.ReadFile(path)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %v", domain.ErrTransmissionUnavailable, err)
	}
	w, err := tbl.Column(0)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrTransmissionUnavailable, path, err)
	}
	sb, err := tbl.Column(1)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrTransmissionUnavailable, path, err)
	}
	for i, v := range sb {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(w[i]) || math.IsInf(w[i], 0) {
			return domain.Curve{}, fmt.Errorf("%w: %s: non-finite value at row %d", domain.ErrTransmissionUnavailable, path, i)
		}
	}
	c, err := domain.NewCurve(w, sb)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrTransmissionUnavailable, path, err)
	}
	return c, nil
}

type cachedStore struct {
	next  ports.TransmissionStore
	cache *lru.Cache
}

// NewCachedStore keeps up to size loaded tables in memory. Callers get their
// own copy of a cached curve.
func NewCachedStore(next ports.TransmissionStore, size int) (ports.TransmissionStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create transmission cache: %w", err)
	}
	return &cachedStore{next: next, cache: cache}, nil
}

func (s *cachedStore) Load(ctx context.Context, code int) (domain.Curve, error) {
	if v, ok := s.cache.Get(code); ok {
		metrics.TransmissionCacheHit()
		return v.(domain.Curve).Clone(), nil
	}
	metrics.TransmissionCacheMiss()

	c, err := s.next.Load(ctx, code)
	if err != nil {
		return domain.Curve{}, err
	}
	s.cache.Add(code, c.Clone())
	log.WithFields(log.Fields{"code": code, "samples": c.Len()}).Debug("cached atmosphere table")
	return c, nil
}
