package migrations

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) { return nil, fs.ErrPermission }

func TestList_ReportsReadError(t *testing.T) {
	names, err := list(brokenFS{}, func(string) bool { return true })
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
	if names != nil {
		t.Errorf("expected no names, got %v", names)
	}
}

func TestList_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":      {},
		"001_a.sql":      {},
		"001_a.down.sql": {},
		"README.md":      {},
	}
	names, err := list(fsys, func(name string) bool { return name != "001_a.down.sql" })
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "001_a.sql" || names[1] != "002_b.sql" {
		t.Errorf("unexpected names %v", names)
	}
}
