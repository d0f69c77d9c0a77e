package site

import (
	"path/filepath"

	"github.com/adnsv/insta485generator/logging"
	"github.com/adnsv/insta485generator/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultOutputDirectory is used below the input directory when no output
// directory is given.
const DefaultOutputDirectory = "html"

// Generator builds a site from an input directory holding config.json,
// templates/ and an optional static/ tree.
type Generator struct {
	FS        afero.Fs
	InputDir  string
	OutputDir string
	Log       *zap.SugaredLogger
}

func NewGenerator(fsys afero.Fs, inputDir, outputDir string, log *zap.SugaredLogger) *Generator {
	if outputDir == "" {
		outputDir = filepath.Join(inputDir, DefaultOutputDirectory)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Generator{FS: fsys, InputDir: inputDir, OutputDir: outputDir, Log: log}
}

func (g *Generator) engine() *Engine {
	return NewEngine(g.FS, filepath.Join(g.InputDir, TemplatesDirectory))
}

// Generate runs the whole build: refuse an existing output directory, load
// the manifest, render every page in order, then copy static assets. It stops
// at the first error; pages written before it stay on disk.
func (g *Generator) Generate() error {
	exists, err := afero.Exists(g.FS, g.OutputDir)
	if err != nil {
		return err
	}
	if exists {
		return model.NewError(model.KindOutputAlreadyExists, g.OutputDir, nil)
	}

	m, err := model.LoadManifest(g.FS, g.InputDir)
	if err != nil {
		return err
	}

	r := NewRenderer(g.FS, g.engine(), g.OutputDir, g.Log)
	for i, p := range m {
		if _, err := r.Render(i, p); err != nil {
			return err
		}
	}

	return CopyStatic(g.FS, g.InputDir, g.OutputDir, g.Log)
}
