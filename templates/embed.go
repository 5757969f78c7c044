// Package templates embeds the HTML views rendered by the fiber engine.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
