package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadTrace    = errors.New("storage: malformed trace")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Speeds    map[string]float64 `json:"speeds"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`

	// MixedSpeeds names planets whose speed changed mid-run. Speeds holds
	// their value at the start.
	MixedSpeeds []string `json:"mixed_speeds,omitempty"`
}

// Save writes meta and trace under a fresh run directory and returns the
// run ID. ID, Ticks and Timestamp are filled in by Save.
func (s *Store) Save(meta RunMetadata, trace *Trace) (string, error) {
	preset := meta.Preset
	if preset == "" {
		preset = "custom"
	}
	meta.ID = fmt.Sprintf("%s_%s", preset, uuid.NewString())
	meta.Timestamp = time.Now().UTC()
	meta.Ticks = trace.Len()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := trace.WriteCSV(csvFile); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return "", fmt.Errorf("%q: %w", runID, ErrRunNotFound)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// Trace is the recorded planet path of one run: per tick, the x and z
// coordinate of every planet in orbit order.
type Trace struct {
	Planets   []string
	Ticks     []uint64
	Positions [][]float64
}

func NewTrace(planets []string) *Trace {
	return &Trace{Planets: append([]string(nil), planets...)}
}

func (t *Trace) Len() int { return len(t.Ticks) }

// Append adds one row. xz holds x,z pairs in the order of t.Planets.
func (t *Trace) Append(tick uint64, xz []float64) error {
	if len(xz) != 2*len(t.Planets) {
		return fmt.Errorf("row has %d values for %d planets: %w", len(xz), len(t.Planets), ErrBadTrace)
	}
	t.Ticks = append(t.Ticks, tick)
	t.Positions = append(t.Positions, append([]float64(nil), xz...))
	return nil
}

// Series returns one coordinate column. axis is "x" or "z".
func (t *Trace) Series(planet, axis string) ([]float64, error) {
	col := -1
	for i, name := range t.Planets {
		if name == planet {
			col = 2 * i
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("planet %q not in trace: %w", planet, ErrBadTrace)
	}
	switch axis {
	case "x":
	case "z":
		col++
	default:
		return nil, fmt.Errorf("axis %q: %w", axis, ErrBadTrace)
	}

	out := make([]float64, len(t.Positions))
	for i, row := range t.Positions {
		out[i] = row[col]
	}
	return out, nil
}

func (t *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"tick"}
	for _, name := range t.Planets {
		header = append(header, name+"_x", name+"_z")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, tick := range t.Ticks {
		row := []string{strconv.FormatUint(tick, 10)}
		for _, val := range t.Positions[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (*Trace, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < 1 || records[0][0] != "tick" || len(records[0])%2 != 1 {
		return nil, fmt.Errorf("header: %w", ErrBadTrace)
	}

	header := records[0]
	var planets []string
	for j := 1; j < len(header); j += 2 {
		name := strings.TrimSuffix(header[j], "_x")
		if header[j+1] != name+"_z" {
			return nil, fmt.Errorf("column %s: %w", header[j+1], ErrBadTrace)
		}
		planets = append(planets, name)
	}

	t := NewTrace(planets)
	for i := 1; i < len(records); i++ {
		record := records[i]
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, ErrBadTrace)
		}
		xz := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, ErrBadTrace)
			}
			xz = append(xz, val)
		}
		if err := t.Append(tick, xz); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return t, nil
}
