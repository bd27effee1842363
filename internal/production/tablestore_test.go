// Tests for TableStore round trips and strict decoding.
package production

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/comalice/tablefsm/internal/primitives"
)

func namedDoorTable() primitives.TableConfig {
	table := doorTable()
	table.States[0].Enter = "log"
	table.FreeEvents[0].Callback = nil
	table.FreeEvents[0].Handler = "beat"
	return table
}

func handlers() primitives.HandlerSet {
	noop := func(primitives.Context, primitives.EventID) primitives.Status { return primitives.StatusOK }
	return primitives.HandlerSet{"log": noop, "beat": noop}
}

func TestTableStore_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			s, err := NewTableStore(t.TempDir(), format)
			if err != nil {
				t.Fatalf("NewTableStore failed: %v", err)
			}

			if err := s.Save(ctx, namedDoorTable()); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := s.Load(ctx, "door", handlers())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if loaded.Version == "" {
				t.Error("version fingerprint not stored")
			}
			if len(loaded.States) != 3 || len(loaded.Transitions) != 5 || len(loaded.FreeEvents) != 1 {
				t.Errorf("unexpected table shape: %+v", loaded)
			}
			if loaded.States[0].OnEnter == nil || loaded.FreeEvents[0].Callback == nil {
				t.Error("handlers not bound after load")
			}
			if loaded.Transitions[3].From != primitives.AnyState || !loaded.Transitions[4].ReturnPrevious {
				t.Error("wildcard or return-to-previous lost")
			}
		})
	}
}

func TestTableStore_LoadMissing(t *testing.T) {
	s, err := NewTableStore(t.TempDir(), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Load(context.Background(), "nope", nil)
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), "nope"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound on delete, got %v", err)
	}
}

func TestTableStore_LoadUnboundHandler(t *testing.T) {
	ctx := context.Background()
	s, err := NewTableStore(t.TempDir(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, namedDoorTable()); err != nil {
		t.Fatal(err)
	}
	_, err = s.Load(ctx, "door", primitives.HandlerSet{})
	if err == nil || !strings.Contains(err.Error(), `handler "beat" not registered`) {
		t.Errorf("expected bind error, got %v", err)
	}
}

func TestTableStore_Delete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewTableStore(dir, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, namedDoorTable()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "door.yaml")); err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if err := s.Delete(ctx, "door"); err != nil {
		t.Fatal(err)
	}
}

func TestDecode_Strict(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		errSub string
	}{
		{"yaml unknown field", FormatYAML, "id: x\nstates: []\nbogus: 1\n", "field bogus not found"},
		{"yaml multiple documents", FormatYAML, "id: a\n---\nid: b\n", "multiple documents"},
		{"yaml empty", FormatYAML, "", "empty document"},
		{"json unknown field", FormatJSON, `{"id":"x","bogus":1}`, `unknown field "bogus"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected error containing %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "door.yml")
	src := `id: door
initial: 1
states:
  - {name: closed, id: 1, on_enter: log}
  - {name: open, id: 2}
transitions:
  - {name: open, from: 1, to: 2, trigger: 10}
  - {name: back, trigger: 13, return_previous: true}
free_events:
  - {name: heartbeat, trigger: 50, handler: beat}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(path, handlers())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if table.ID != "door" || table.InitialState() != 1 || len(table.Transitions) != 2 {
		t.Errorf("unexpected table: %+v", table)
	}

	if _, err := LoadFile(filepath.Join(dir, "door.txt"), nil); err == nil {
		t.Error("expected unsupported extension error")
	}
}
