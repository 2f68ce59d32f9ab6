package assets

import (
	"embed"
	"io/fs"
)

//go:embed emails/*.tmpl
var emailFS embed.FS

//go:embed locales/*.json
var localeFS embed.FS

//go:embed migrations
var migrationFS embed.FS

var (
	EmailFS     fs.FS
	LocaleFS    fs.FS
	MigrationFS fs.FS
)

func init() {
	var err error

	EmailFS, err = fs.Sub(emailFS, "emails")
	if err != nil {
		panic("failed to subtree email FS " + err.Error())
	}

	LocaleFS, err = fs.Sub(localeFS, "locales")
	if err != nil {
		panic("failed to subtree locale FS " + err.Error())
	}

	MigrationFS, err = fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic("failed to subtree migration FS " + err.Error())
	}
}
