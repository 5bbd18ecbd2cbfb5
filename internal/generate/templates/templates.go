// Package templates embeds the assets used by the code generators.
package templates

import "embed"

//go:embed fixfile.tmpl basic_types.src
var FS embed.FS
