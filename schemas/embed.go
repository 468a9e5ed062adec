// Package schemas embeds the JSON Schemas for the profiles and scores the
// matcher emits.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
