package roles

import (
	"embed"
	"io/fs"
)

// builtinTemplates embeds all built-in role templates.
//
//go:embed templates/*
var builtinTemplates embed.FS

// BuiltinTemplatesFS returns the templates subdirectory as a filesystem.
// This removes the "templates/" prefix so files can be accessed directly.
func BuiltinTemplatesFS() (fs.FS, error) {
	return fs.Sub(builtinTemplates, "templates")
}
