// Package resultfile stores recalculation runs as files: one run.json per run
// and one JSON-lines file per partition.
package resultfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const runFile = "run.json"

// record is the on-disk form of a result. NaN values are written as null.
type record struct {
	ObsHistID      int64    `json:"obsHistID"`
	Filter         string   `json:"filter"`
	Airmass        *float64 `json:"airmass"`
	FiveSigmaDepth *float64 `json:"fiveSigmaDepth"`
	FieldM5        *float64 `json:"fieldM5"`
	SkyMag         *float64 `json:"skyMag"`
	Skipped        bool     `json:"skipped,omitempty"`
}

func toRecord(r domain.PointingResult) record {
	return record{
		ObsHistID:      r.ObsHistID,
		Filter:         r.Filter,
		Airmass:        nullable(r.Airmass),
		FiveSigmaDepth: nullable(r.FiveSigmaDepth),
		FieldM5:        nullable(r.FieldM5),
		SkyMag:         nullable(r.SkyMag),
		Skipped:        r.Skipped,
	}
}

func (r record) toDomain() domain.PointingResult {
	return domain.PointingResult{
		ObsHistID:      r.ObsHistID,
		Filter:         r.Filter,
		Airmass:        value(r.Airmass),
		FiveSigmaDepth: value(r.FiveSigmaDepth),
		FieldM5:        value(r.FieldM5),
		SkyMag:         value(r.SkyMag),
		Skipped:        r.Skipped,
	}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

type fileRepo struct {
	dir string
	mu  sync.Mutex
}

// NewResultRepository keeps runs under dir.
func NewResultRepository(dir string) (ports.ResultRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) runDir(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String())
}

func partitionFile(partition int) string {
	return fmt.Sprintf("part-%04d.jsonl", partition)
}

func (r *fileRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	if err := os.MkdirAll(r.runDir(run.ID), 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	return r.writeRun(run)
}

func (r *fileRepo) UpdateRun(ctx context.Context, run *domain.Run) error {
	if _, err := os.Stat(filepath.Join(r.runDir(run.ID), runFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrRunNotFound
		}
		return fmt.Errorf("stat run: %w", err)
	}
	return r.writeRun(run)
}

func (r *fileRepo) writeRun(run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	return writeAtomic(filepath.Join(r.runDir(run.ID), runFile), data)
}

func (r *fileRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	data, err := os.ReadFile(filepath.Join(r.runDir(id), runFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// SavePartition replaces the results file of one partition.
func (r *fileRepo) SavePartition(ctx context.Context, runID uuid.UUID, partition int, results []domain.PointingResult) error {
	dir := r.runDir(runID)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrRunNotFound
		}
		return fmt.Errorf("stat run dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, partitionFile(partition)+".*")
	if err != nil {
		return fmt.Errorf("create partition file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, res := range results {
		if err := enc.Encode(toRecord(res)); err != nil {
			tmp.Close()
			return fmt.Errorf("encode partition %d: %w", partition, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush partition %d: %w", partition, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close partition %d: %w", partition, err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, partitionFile(partition)))
}

// ListResults returns the results of every partition in partition order.
func (r *fileRepo) ListResults(ctx context.Context, runID uuid.UUID) ([]domain.PointingResult, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(r.runDir(runID), "part-*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	sort.Strings(files)

	var out []domain.PointingResult
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := readPartition(f)
		if err != nil {
			return nil, err
		}
		out = append(out, results...)
	}
	return out, nil
}

func readPartition(path string) ([]domain.PointingResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open partition: %w", err)
	}
	defer f.Close()

	var out []domain.PointingResult
	dec := json.NewDecoder(bufio.NewReader(f))
	for dec.More() {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}
