// Package migrations embeds the SQL migrations for the libsql feedback store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
