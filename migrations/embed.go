package migrations

import "embed"

// FS carries the SQL migrations inside the binary so the server runs without
// external migration files
//
//go:embed *.sql
var FS embed.FS
