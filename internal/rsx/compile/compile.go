// Package compile renders one .rsx source file to HTML.
package compile

import (
	"github.com/kilianc/rsx/internal/rsx/config"
	"github.com/kilianc/rsx/internal/rsx/parser"
	"github.com/kilianc/rsx/internal/rsx/render"
	"github.com/kilianc/rsx/internal/rsx/sanitize"
)

// Options builds parser options from cfg and the template's data.
func Options(cfg *config.Config, data map[string]any) parser.Options {
	opts := parser.Options{
		Mode:  cfg.Mode,
		Scope: parser.Scope(data),
	}
	if cfg.Sanitize {
		opts.Sanitize = sanitize.HTML
	}
	return opts
}

// CompileFile renders src, the contents of the template at path, using
// cfg and the data file next to path. The result ends with a newline.
func CompileFile(path string, src []byte, cfg *config.Config) ([]byte, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	data, err := cfg.DataFor(path)
	if err != nil {
		return nil, err
	}
	return Compile(path, src, cfg, data)
}

// Compile renders src with an explicit scope.
func Compile(name string, src []byte, cfg *config.Config, data map[string]any) ([]byte, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	doc, err := parser.Build(name, string(src), Options(cfg, data))
	if err != nil {
		return nil, err
	}
	if cfg.Doctype {
		doc.Doctype = true
	}
	out := render.Document(doc.Document, doc.Mode)
	return append([]byte(out), '\n'), nil
}
