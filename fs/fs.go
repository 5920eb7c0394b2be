package appfs

import "embed"

// FS holds the seed fixtures of the in-memory store and the SQL migrations.
//
//go:embed fixtures/*.json migrations/*.sql
var FS embed.FS
