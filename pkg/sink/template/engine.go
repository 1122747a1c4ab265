package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
	autoescape bool
}

// WithBaseDir loads templates from a directory on disk. Disk templates take
// precedence over WithFS templates with the same name.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithAutoescape enables HTML escaping of variable output. Text sinks leave it
// off.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoescape = enabled
	}
}

// Engine renders named templates from a pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	sources     []fs.FS
	tplExt      string
	autoescape  bool
}

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("template: need to provide either base dir or fs.FS")
	}

	var (
		loaders []pongo2.TemplateLoader
		sources []fs.FS
	)
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("template: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
		sources = append(sources, cfg.templates)
	}

	set := pongo2.NewSet("schemadoc", loaders...)
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true

	engine := &Engine{
		templateSet: set,
		templates:   make(map[string]*pongo2.Template),
		sources:     sources,
		tplExt:      cfg.extension,
		autoescape:  cfg.autoescape,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("template: apply global data: %w", err)
	}
	return engine, nil
}

// Execute renders the named template into w. The extension is appended when
// name does not already carry it.
func (e *Engine) Execute(name string, data any, w io.Writer) error {
	if e == nil || e.templateSet == nil {
		return errors.New("template: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return err
	}
	if err := e.execute(tmpl, data, w); err != nil {
		return fmt.Errorf("template: execute template %q: %w", templatePath, err)
	}
	return nil
}

// ExecuteString parses templateContent and renders it into w.
func (e *Engine) ExecuteString(templateContent string, data any, w io.Writer) error {
	if e == nil || e.templateSet == nil {
		return errors.New("template: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(e.wrapEscaping(templateContent))
	if err != nil {
		return fmt.Errorf("template: parse template string: %w", err)
	}
	if err := e.execute(tmpl, data, w); err != nil {
		return fmt.Errorf("template: execute template string: %w", err)
	}
	return nil
}

// Has reports whether the named template can be loaded.
func (e *Engine) Has(name string) bool {
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}
	_, err := e.getTemplate(templatePath)
	return err == nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, w io.Writer) error {
	viewContext, err := convertToContext(data)
	if err != nil {
		return fmt.Errorf("convert data: %w", err)
	}

	// Render fully before touching w so a failed template leaves no partial output.
	var buf bytes.Buffer

	// Block trimming rewrites the parsed tokens on every execution.
	e.mu.Lock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// GlobalContext seeds global data on the template set.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("template: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	raw, err := e.readTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("template: load template %q: %w", path, err)
	}
	tmpl, err := e.templateSet.FromString(e.wrapEscaping(raw))
	if err != nil {
		return nil, fmt.Errorf("template: parse template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func (e *Engine) readTemplate(path string) (string, error) {
	var lastErr error
	for _, files := range e.sources {
		raw, err := fs.ReadFile(files, path)
		if err == nil {
			return string(raw), nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fs.ErrNotExist
	}
	return "", lastErr
}

// wrapEscaping scopes autoescaping to this engine; pongo2's switch is global.
// Templates therefore cannot use {% extends %}, which must be the first tag.
func (e *Engine) wrapEscaping(content string) string {
	mode := "off"
	if e.autoescape {
		mode = "on"
	}
	return "{% autoescape " + mode + " %}" + content + "{% endautoescape %}"
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	default:
		// Round trip through JSON so templates address fields by their json
		// tags (node.key) rather than Go field names.
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return pongo2.Context(m), nil
	}
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
