package site

import (
	"io"
	"path/filepath"

	"github.com/adnsv/insta485generator/model"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Plan describes what Generate would write, without writing it.
type Plan struct {
	Input  string      `yaml:"input"`
	Output string      `yaml:"output"`
	Static string      `yaml:"static,omitempty"`
	Pages  []*PlanPage `yaml:"pages"`
}

type PlanPage struct {
	URL      string   `yaml:"url"`
	Template string   `yaml:"template"`
	Output   string   `yaml:"output"`
	Escaping Escaping `yaml:"escaping"`
	Uses     []string `yaml:"uses,omitempty"`
}

// Plan loads the manifest and resolves every template it names. Template
// errors are reported exactly as Generate would report them. The output
// directory is neither checked nor touched.
func (g *Generator) Plan() (*Plan, error) {
	m, err := model.LoadManifest(g.FS, g.InputDir)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Input: g.InputDir, Output: g.OutputDir}
	staticDir := filepath.Join(g.InputDir, StaticDirectory)
	if ok, _ := afero.DirExists(g.FS, staticDir); ok {
		plan.Static = staticDir
	}

	e := g.engine()
	for i, p := range m {
		if p == nil {
			return nil, model.NewError(model.KindMalformedEntry, entryName(i), errNullEntry)
		}
		if err := p.Validate(); err != nil {
			return nil, model.NewError(model.KindMalformedEntry, entryName(i), err)
		}
		t, err := e.Lookup(p.Template)
		if err != nil {
			return nil, err
		}
		pp := &PlanPage{
			URL:      p.URL,
			Template: p.Template,
			Output:   OutputPath(g.OutputDir, p.URL),
			Escaping: t.Escaping,
		}
		// only list dependencies, the template itself is already named
		if len(t.Files) > 1 {
			pp.Uses = t.Files[:len(t.Files)-1]
		}
		plan.Pages = append(plan.Pages, pp)
	}
	return plan, nil
}

// WriteYAML writes the plan as a YAML document.
func (p *Plan) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}
