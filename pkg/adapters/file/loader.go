package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/macrograph/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.GraphLoader and ports.GraphSaver over a single graph file.
// The format follows the extension: .json is JSON, anything else is YAML.
// The file is re-read on every Load, so edits are picked up by the next compile.
type Loader struct {
	path string
}

// NewLoader creates a loader for the graph file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the graph file path.
func (l *Loader) Path() string { return l.path }

// Load reads and decodes the graph file.
func (l *Loader) Load(ctx context.Context) (*domain.Graph, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	g, err := Decode(data, l.isJSON())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(l.path), err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	}
	return g, nil
}

// Save encodes g and replaces the graph file atomically.
func (l *Loader) Save(ctx context.Context, g *domain.Graph) error {
	data, err := Encode(g, l.isJSON())
	if err != nil {
		return err
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".macrograph-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write graph: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to replace graph file: %w", err)
	}
	return nil
}

func (l *Loader) isJSON() bool {
	return strings.ToLower(filepath.Ext(l.path)) == ".json"
}

// Decode parses a graph document.
func Decode(data []byte, isJSON bool) (*domain.Graph, error) {
	var g domain.Graph
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return nil, err
		}
		normalizeNumbers(&g)
		return &g, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Encode renders a graph document.
func Encode(g *domain.Graph, isJSON bool) ([]byte, error) {
	if isJSON {
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeNumbers turns json.Number args into int when integral, float64 otherwise,
// matching what the YAML decoder produces.
func normalizeNumbers(g *domain.Graph) {
	for i := range g.Nodes {
		if g.Nodes[i].Observer != nil {
			normalizeArgs(g.Nodes[i].Observer.Args)
		}
		for j := range g.Nodes[i].Actions {
			normalizeArgs(g.Nodes[i].Actions[j].Args)
		}
	}
}

func normalizeArgs(args map[string]any) {
	for k, v := range args {
		args[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	case map[string]any:
		normalizeArgs(t)
		return t
	}
	return v
}
