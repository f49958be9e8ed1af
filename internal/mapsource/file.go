package mapsource

import (
	"context"
	"fmt"
	"os"

	"github.com/vanshika/campusnav/internal/domain"
)

// FileSource reads the map from a JSON file on every Load.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(_ context.Context) (domain.MapDocument, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	raw, err := Decode(f)
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return Normalize(raw)
}
