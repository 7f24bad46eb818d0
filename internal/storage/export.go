package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run     RunMetadata          `json:"run"`
	Steps   []int                `json:"steps"`
	Times   []float64            `json:"times"`
	Columns []string             `json:"columns"`
	Samples [][]float64          `json:"samples"`
	Bodies  map[string]BodyTrack `json:"bodies"`
}

// BodyTrack is one body's sampled trajectory.
type BodyTrack struct {
	X  []float64 `json:"x"`
	Y  []float64 `json:"y"`
	VX []float64 `json:"vx"`
	VY []float64 `json:"vy"`
}

// ExportJSON writes a stored run as a single indented JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	table, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Steps:   table.Steps,
		Times:   table.Times,
		Columns: table.Columns,
		Samples: table.Rows,
		Bodies:  make(map[string]BodyTrack, len(meta.Bodies)),
	}
	for _, name := range meta.Bodies {
		var track BodyTrack
		track.X, _ = table.Column(name + "_x")
		track.Y, _ = table.Column(name + "_y")
		track.VX, _ = table.Column(name + "_vx")
		track.VY, _ = table.Column(name + "_vy")
		data.Bodies[name] = track
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV rewrites a stored run's samples to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	table, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := append([]string{"step", "time"}, table.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		rec := []string{strconv.Itoa(table.Steps[i]), formatFloat(table.Times[i])}
		for _, val := range row {
			rec = append(rec, formatFloat(val))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
