// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the versioned SQL schema so the binary carries it.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file of this directory.
//
//go:embed *.sql
var FS embed.FS
