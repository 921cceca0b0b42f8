// Package migrations embeds the catalog schema.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
