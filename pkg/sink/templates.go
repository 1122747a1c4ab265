package sink

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Templates exposes the built-in sink templates (markdown.tpl, html.tpl) so
// callers can copy and customise them.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// TemplateOption selects where a template backed sink loads templates from.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	files fs.FS
	dir   string
}

// WithTemplatesFS replaces the embedded templates.
func WithTemplatesFS(files fs.FS) TemplateOption {
	return func(cfg *templateConfig) {
		if files != nil {
			cfg.files = files
		}
	}
}

// WithTemplateDir loads templates from a directory first, falling back to
// the embedded set for anything missing.
func WithTemplateDir(dir string) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.dir = dir
	}
}

func newTemplateConfig(options []TemplateOption) templateConfig {
	cfg := templateConfig{files: Templates()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
