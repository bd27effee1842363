// Package production provides production integrations: table storage,
// transition publishing and visualization.
//
// Only table definitions are stored. Runtime state (current, previous,
// queued events) is never persisted.
package production

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tablefsm/internal/primitives"
)

// ErrTableNotFound is returned when no file exists for a table id.
var ErrTableNotFound = errors.New("table not found")

// Format selects the on-disk encoding of a TableStore.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported table file extension %q", filepath.Ext(path))
	}
}

// TableStore is a file-based store of table definitions, one file per
// table id.
type TableStore struct {
	dir    string
	format Format
}

// NewTableStore creates a TableStore, ensuring the directory exists.
func NewTableStore(dir string, format Format) (*TableStore, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &TableStore{dir: dir, format: format}, nil
}

func (s *TableStore) path(id string) string {
	return filepath.Join(s.dir, id+"."+string(s.format))
}

// Save writes table. The version fingerprint is filled in when empty.
func (s *TableStore) Save(ctx context.Context, table primitives.TableConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if table.ID == "" {
		return errors.New("table ID is required")
	}
	if table.Version == "" {
		table.Version = primitives.ComputeVersion(&table)
	}

	data, err := Encode(table, s.format)
	if err != nil {
		return err
	}

	fn := s.path(table.ID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads the table stored under id, binds its handler names from
// handlers and validates it.
func (s *TableStore) Load(ctx context.Context, id string, handlers primitives.HandlerSet) (primitives.TableConfig, error) {
	if err := ctx.Err(); err != nil {
		return primitives.TableConfig{}, err
	}

	fn := s.path(id)
	f, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return primitives.TableConfig{}, fmt.Errorf("table %q: %w", id, ErrTableNotFound)
		}
		return primitives.TableConfig{}, fmt.Errorf("open %s: %w", fn, err)
	}
	defer f.Close()

	table, err := Decode(f, s.format)
	if err != nil {
		return primitives.TableConfig{}, fmt.Errorf("%s: %w", fn, err)
	}
	if table.ID != id {
		return primitives.TableConfig{}, fmt.Errorf("table ID mismatch: file %s holds %q", fn, table.ID)
	}
	if err := Prepare(&table, handlers); err != nil {
		return primitives.TableConfig{}, fmt.Errorf("%s: %w", fn, err)
	}
	return table, nil
}

// Delete removes the table stored under id.
func (s *TableStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("table %q: %w", id, ErrTableNotFound)
		}
		return err
	}
	return nil
}

// Prepare binds handler names and validates the result.
func Prepare(table *primitives.TableConfig, handlers primitives.HandlerSet) error {
	if err := handlers.Bind(table); err != nil {
		return fmt.Errorf("bind handlers: %w", err)
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("config validation after load: %w", err)
	}
	return nil
}

// Encode serializes table in the given format.
func Encode(table primitives.TableConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return data, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(table); err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses one table document. Unknown fields are errors, and YAML
// input must hold exactly one document.
func Decode(r io.Reader, format Format) (primitives.TableConfig, error) {
	var table primitives.TableConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&table); err != nil {
			return table, fmt.Errorf("json unmarshal: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&table); err != nil {
			if errors.Is(err, io.EOF) {
				return table, errors.New("yaml unmarshal: empty document")
			}
			return table, fmt.Errorf("yaml unmarshal: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return table, errors.New("yaml unmarshal: multiple documents are not supported")
		}
	default:
		return table, fmt.Errorf("unsupported format %q", format)
	}
	return table, nil
}

// LoadFile reads, binds and validates a single table file.
func LoadFile(path string, handlers primitives.HandlerSet) (primitives.TableConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return primitives.TableConfig{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return primitives.TableConfig{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Decode(f, format)
	if err != nil {
		return primitives.TableConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := Prepare(&table, handlers); err != nil {
		return primitives.TableConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
