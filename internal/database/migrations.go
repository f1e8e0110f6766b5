package database

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var migrationFile = regexp.MustCompile(`^(\d+)_(\w+)\.(up|down)\.sql$`)

// Migration is one versioned schema change together with its inverse.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// ID renders the migration as it is named on disk, e.g. 000002_lower_name_indexes.
func (m Migration) ID() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// Checksum fingerprints the up script.
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.Up))
	return hex.EncodeToString(sum[:])
}

// EmbeddedMigrations returns the PostgreSQL migrations compiled into the binary.
func EmbeddedMigrations() ([]Migration, error) {
	return ParseMigrations(embeddedMigrations, "migrations")
}

// ParseMigrations collects NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs
// from dir, ordered by version. Other files are ignored.
func ParseMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	type halves struct {
		Migration
		hasUp, hasDown bool
	}
	byVersion := make(map[int]*halves)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFile.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad version: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		h, ok := byVersion[version]
		if !ok {
			h = &halves{Migration: Migration{Version: version, Name: match[2]}}
			byVersion[version] = h
		} else if h.Name != match[2] {
			return nil, fmt.Errorf("version %d is claimed by both %q and %q", version, h.Name, match[2])
		}

		if match[3] == "up" {
			h.Up, h.hasUp = string(body), true
		} else {
			h.Down, h.hasDown = string(body), true
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, h := range byVersion {
		switch {
		case !h.hasUp:
			return nil, fmt.Errorf("migration %s has no up script", h.ID())
		case !h.hasDown:
			return nil, fmt.Errorf("migration %s has no down script", h.ID())
		}
		out = append(out, h.Migration)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
