package assets

import (
	"embed"
	"io/fs"
)

//go:embed catalog/*.yaml sql/*.sql
var FS embed.FS

// Catalog returns the embedded content catalogs rooted at catalog/.
func Catalog() fs.FS {
	sub, err := fs.Sub(FS, "catalog")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrations returns the embedded sql migrations rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
