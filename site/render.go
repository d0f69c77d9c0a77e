package site

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adnsv/insta485generator/logging"
	"github.com/adnsv/insta485generator/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const IndexFileName = "index.html"

var errNullEntry = errors.New("entry is null")

// NormalizeURL strips a single leading slash, so "/a/b" and "a/b" name the
// same output directory.
func NormalizeURL(url string) string {
	return strings.TrimPrefix(url, "/")
}

// OutputPath returns the file a page with the given url is written to.
func OutputPath(outputDir, url string) string {
	return filepath.Join(outputDir, filepath.FromSlash(NormalizeURL(url)), IndexFileName)
}

// Renderer writes manifest pages into an output directory.
type Renderer struct {
	fs        afero.Fs
	engine    *Engine
	outputDir string
	log       *zap.SugaredLogger
}

func NewRenderer(fsys afero.Fs, engine *Engine, outputDir string, log *zap.SugaredLogger) *Renderer {
	if log == nil {
		log = logging.Nop()
	}
	return &Renderer{fs: fsys, engine: engine, outputDir: outputDir, log: log}
}

// Render renders a single page. index is the position of the page in the
// manifest and only used for error reporting.
func (r *Renderer) Render(index int, p *model.Page) (string, error) {
	if p == nil {
		return "", model.NewError(model.KindMalformedEntry, entryName(index), errNullEntry)
	}
	if err := p.Validate(); err != nil {
		return "", model.NewError(model.KindMalformedEntry, entryName(index), err)
	}

	tmpl, err := r.engine.Lookup(p.Template)
	if err != nil {
		return "", err
	}

	// html/template reports escaping errors on first execution, so render
	// before anything is created on disk
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, contextData(p.Context)); err != nil {
		if model.KindOf(err) != model.KindUnknown {
			return "", err
		}
		return "", fmt.Errorf("rendering '%s': %w", p.Template, err)
	}

	fout := OutputPath(r.outputDir, p.URL)
	if err := r.fs.MkdirAll(filepath.Dir(fout), 0755); err != nil {
		return "", err
	}

	if err := afero.WriteFile(r.fs, fout, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	r.log.Infof("Rendered %s -> %s", p.Template, fout)
	return fout, nil
}

// contextData hands the entry context to the template engine; a missing
// context renders like an empty one.
func contextData(ctx map[string]any) map[string]any {
	if ctx == nil {
		return map[string]any{}
	}
	return ctx
}

func entryName(index int) string {
	return fmt.Sprintf("%s entry #%d", model.ConfigFileName, index+1)
}
