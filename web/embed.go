// Package web embeds the templates and static assets of the fintrack UI.
package web

import "embed"

// TemplatesFS holds the page layout and the HTMX partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the chart/toast glue script.
//
//go:embed static/*
var StaticFS embed.FS
