// Package web holds the single-page product manager served under /app.
package web

import "embed"

//go:embed static
var Assets embed.FS
