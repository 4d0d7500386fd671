// Package migrations embeds the versioned schema of the urls table for every
// supported storage engine.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the PostgreSQL migrations.
func Postgres() fs.FS {
	return sub("postgres")
}

// SQLite returns the SQLite migrations.
func SQLite() fs.FS {
	return sub("sqlite")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		// dir is one of the embedded directories.
		panic(err)
	}
	return fsys
}
