package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/neo/source"
)

type step struct {
	Char         rune
	Line, Column int
}

func walk(s *source.Reader) []step {
	var steps []step
	for {
		steps = append(steps, step{s.Current(), s.Line(), s.Column()})
		if s.Current() == source.EOF {
			return steps
		}
		s.Advance()
	}
}

func TestPositions(t *testing.T) {
	t.Parallel()
	want := []step{
		{'a', 1, 1},
		{'\n', 1, 2},
		{'b', 2, 1},
		{'é', 2, 2},
		{source.EOF, 2, 3},
	}
	if diff := cmp.Diff(want, walk(source.FromString("a\nbé"))); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	s := source.FromString("")
	if s.Current() != source.EOF {
		t.Errorf("expected EOF, got %q", s.Current())
	}
	if s.Advance() != source.EOF || s.Line() != 1 || s.Column() != 1 {
		t.Errorf("advancing past EOF moved the cursor to %d:%d", s.Line(), s.Column())
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prog.neo")
	if err := os.WriteFile(path, []byte("x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, closer, err := source.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer closer.Close()

	want := []step{{'x', 1, 1}, {'\n', 1, 2}, {source.EOF, 2, 1}}
	if diff := cmp.Diff(want, walk(s)); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := source.Open(filepath.Join(t.TempDir(), "missing.neo")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
