// Package migrations embeds the schema so cmd/migrate works from any
// working directory.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const downSuffix = ".down.sql"

// Up returns the forward migration file names in apply order.
func Up() ([]string, error) {
	return list(files, func(name string) bool { return !strings.HasSuffix(name, downSuffix) })
}

// Down returns the rollback file names in apply order (newest first).
func Down() ([]string, error) {
	names, err := list(files, func(name string) bool { return strings.HasSuffix(name, downSuffix) })
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Read returns the SQL of one migration file.
func Read(name string) (string, error) {
	data, err := fs.ReadFile(files, name)
	return string(data), err
}

func list(fsys fs.FS, keep func(string) bool) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") && keep(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
