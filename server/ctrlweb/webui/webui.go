package webui

import "embed"

//go:embed layouts/*.tmpl partials/*.tmpl pages/*.tmpl
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
