package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run       RunMetadata `json:"run"`
	Planets   []string    `json:"planets"`
	Ticks     []uint64    `json:"ticks"`
	Positions [][]float64 `json:"positions"`
}

func ExportJSON(w io.Writer, meta RunMetadata, trace *Trace) error {
	data := ExportData{
		Run:       meta,
		Planets:   trace.Planets,
		Ticks:     trace.Ticks,
		Positions: trace.Positions,
	}
	if data.Ticks == nil {
		data.Ticks = []uint64{}
		data.Positions = [][]float64{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRun loads a stored run and writes it as JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, trace)
}
