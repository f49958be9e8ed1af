package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/mapsource"
)

// WriteDataset serializes the dataset into map.json and students.json under the provided directory.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mapPath := filepath.Join(dir, "map.json")
	if err := writeJSON(mapPath, mapsource.Denormalize(dataset.Map)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := directory.EncodeStudents(&buf, dataset.Students); err != nil {
		return fmt.Errorf("encode students: %w", err)
	}
	studentsPath := filepath.Join(dir, "students.json")
	if err := os.WriteFile(studentsPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", studentsPath, err)
	}
	return nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
