package song

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON reads a Song from its JSON wire shape.
func DecodeJSON(data []byte) (Song, error) {
	var s Song
	if err := json.Unmarshal(data, &s); err != nil {
		return Song{}, fmt.Errorf("decode song json: %w", err)
	}
	return s, nil
}

// EncodeJSON renders a Song in its JSON wire shape.
func EncodeJSON(s Song) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode song json: %w", err)
	}
	return data, nil
}

// DecodeYAML reads a hand-authored YAML song document.
func DecodeYAML(data []byte) (Song, error) {
	var s Song
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Song{}, fmt.Errorf("decode song yaml: %w", err)
	}
	return s, nil
}

// LoadFile reads a song document from path, picking the codec by extension
// (.yaml/.yml for YAML, anything else JSON).
func LoadFile(path string) (Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Song{}, fmt.Errorf("read song file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}
