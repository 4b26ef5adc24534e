// Package storage persists simulation runs: one directory per run
// holding JSON metadata and a CSV of per-collision samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nzakhir/brownian-motion-simulation/internal/config"
	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
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

type RunMetadata struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Particles       int                `json:"particles"`
	Mass            float64            `json:"mass"`
	Radius          float64            `json:"radius"`
	ContainerRadius float64            `json:"container_radius"`
	Sigma           float64            `json:"sigma"`
	Seed            int64              `json:"seed"`
	Collisions      int                `json:"collisions"`
	Metrics         map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{"time", "kinetic_energy", "momentum_x", "momentum_y", "pressure", "wall"}

func (s *Store) Save(cfg *config.Config, collisions int, metrics map[string]float64, samples []gas.Sample) (string, error) {
	runID := fmt.Sprintf("gas_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Particles:       cfg.Particles,
		Mass:            cfg.Mass,
		Radius:          cfg.Radius,
		ContainerRadius: cfg.ContainerRadius,
		Sigma:           cfg.Sigma,
		Seed:            cfg.Seed,
		Collisions:      collisions,
		Metrics:         metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, smp := range samples {
		wall := "0"
		if smp.Wall {
			wall = "1"
		}
		row := []string{
			strconv.FormatFloat(smp.Clock, 'f', 9, 64),
			strconv.FormatFloat(smp.Kinetic, 'f', 9, 64),
			strconv.FormatFloat(smp.Momentum.X, 'f', 9, 64),
			strconv.FormatFloat(smp.Momentum.Y, 'f', 9, 64),
			strconv.FormatFloat(smp.Pressure, 'f', 9, 64),
			wall,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]gas.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []gas.Sample{}, nil
	}

	samples := make([]gas.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(sampleHeader) {
			continue
		}
		clock, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		ke, _ := strconv.ParseFloat(record[1], 64)
		px, _ := strconv.ParseFloat(record[2], 64)
		py, _ := strconv.ParseFloat(record[3], 64)
		pressure, _ := strconv.ParseFloat(record[4], 64)

		samples = append(samples, gas.Sample{
			Clock:    clock,
			Kinetic:  ke,
			Momentum: gas.Vec2{X: px, Y: py},
			Pressure: pressure,
			Wall:     record[5] == "1",
		})
	}

	return samples, nil
}

// ExportData is the flattened JSON form of a stored run.
type ExportData struct {
	RunMetadata
	Samples []gas.Sample `json:"samples"`
}

func ExportJSON(path string, meta *RunMetadata, samples []gas.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}

func ExportJSONStdout(meta *RunMetadata, samples []gas.Sample) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}
