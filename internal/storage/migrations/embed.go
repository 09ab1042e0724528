// Package migrations carries the embedded schema for both databases and
// applies it through whatever connection the caller already holds.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed clickhouse/*.sql
var clickhouseFS embed.FS

// Migration is one embedded schema file.
type Migration struct {
	Name string
	SQL  string
}

// Postgres returns the relational schema (people, events, mentions) in apply order.
func Postgres() ([]Migration, error) {
	return load(postgresFS, "postgres")
}

// Clickhouse returns the daily_stats schema in apply order.
func Clickhouse() ([]Migration, error) {
	return load(clickhouseFS, "clickhouse")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s migrations: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, SQL: string(data)})
	}
	return out, nil
}
