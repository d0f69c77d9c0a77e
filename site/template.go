package site

import (
	"errors"
	htmltemplate "html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"text/template/parse"

	"github.com/adnsv/insta485generator/model"
	"github.com/spf13/afero"
)

const TemplatesDirectory = "templates"

// Escaping is the output escaping mode selected by a template's extension.
type Escaping int

const (
	EscapeNone = Escaping(iota) // text/template
	EscapeHTML                  // html/template, contextual auto-escaping
)

func (e Escaping) String() string {
	switch e {
	case EscapeHTML:
		return "html"
	default:
		return "none"
	}
}

// MarshalText lets the plan report show the mode by name.
func (e Escaping) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EscapingFor picks the escaping mode for a template name: HTML and XML
// documents are escaped, everything else is rendered as plain text.
func EscapingFor(name string) Escaping {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xml":
		return EscapeHTML
	}
	return EscapeNone
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Template is a parsed template ready for execution, together with every
// template file it references.
type Template struct {
	Name     string
	Escaping Escaping
	Files    []string // logical names, dependencies first, Name last

	set executor
}

// Execute renders the template with data into w. Escaping failures detected
// by html/template are reported as syntax errors of the template.
func (t *Template) Execute(w io.Writer, data any) error {
	err := t.set.ExecuteTemplate(w, t.Name, data)
	var escErr *htmltemplate.Error
	if errors.As(err, &escErr) {
		return model.NewError(model.KindTemplateSyntaxError, t.Name, err)
	}
	return err
}

// Engine resolves templates by logical name below a search root, in the
// manner of a file system loader: "users/show.html" is read from
// <root>/users/show.html.
type Engine struct {
	fs    afero.Fs
	root  string
	cache map[string]*Template
}

func NewEngine(fsys afero.Fs, root string) *Engine {
	return &Engine{
		fs:    fsys,
		root:  root,
		cache: map[string]*Template{},
	}
}

type source struct {
	name string
	text string
}

// Lookup loads and parses the named template. Templates invoked with
// {{template "other.html"}} that are not defined by an already loaded file
// are loaded from the search root first, so {{define}} blocks in the
// referencing file override {{block}} defaults of the referenced one.
func (e *Engine) Lookup(name string) (*Template, error) {
	if t, ok := e.cache[name]; ok {
		return t, nil
	}

	r := resolver{engine: e, seen: map[string]bool{}, defined: map[string]bool{}}
	if err := r.collect(name); err != nil {
		return nil, err
	}
	for _, ref := range r.pending {
		if !r.defined[ref] {
			return nil, model.NewError(model.KindTemplateNotFound, ref, nil)
		}
	}

	t := &Template{Name: name, Escaping: EscapingFor(name)}
	for _, src := range r.order {
		t.Files = append(t.Files, src.name)
	}

	var err error
	switch t.Escaping {
	case EscapeHTML:
		t.set, err = buildHTML(name, r.order)
	default:
		t.set, err = buildText(name, r.order)
	}
	if err != nil {
		return nil, model.NewError(model.KindTemplateSyntaxError, name, err)
	}

	e.cache[name] = t
	return t, nil
}

func (e *Engine) read(name string) (string, error) {
	if !validName(name) {
		return "", model.NewError(model.KindTemplateNotFound, name, nil)
	}
	fn := filepath.Join(e.root, filepath.FromSlash(name))
	if stat, err := e.fs.Stat(fn); err == nil && stat.IsDir() {
		return "", model.NewError(model.KindTemplateNotFound, name, nil)
	}
	buf, err := afero.ReadFile(e.fs, fn)
	if errors.Is(err, os.ErrNotExist) {
		return "", model.NewError(model.KindTemplateNotFound, name, err)
	} else if err != nil {
		return "", err
	}
	return string(buf), nil
}

// validName rejects names that would leave the search root.
func validName(name string) bool {
	if name == "" || path.IsAbs(name) || filepath.IsAbs(name) {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(name), "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

type resolver struct {
	engine  *Engine
	seen    map[string]bool
	defined map[string]bool
	pending []string // references that are not files, must be defined somewhere
	order   []source
}

func (r *resolver) collect(name string) error {
	if r.seen[name] {
		return nil
	}
	r.seen[name] = true

	text, err := r.engine.read(name)
	if err != nil {
		return err
	}

	// parse once to discover definitions and references; both template
	// packages share this syntax
	probe, err := texttemplate.New(name).Parse(text)
	if err != nil {
		return model.NewError(model.KindTemplateSyntaxError, name, err)
	}

	local := map[string]bool{}
	refs := []string{}
	for _, t := range probe.Templates() {
		local[t.Name()] = true
		r.defined[t.Name()] = true
	}
	for _, t := range probe.Templates() {
		if t.Tree == nil {
			continue
		}
		walkTemplateRefs(t.Tree.Root, func(ref string) {
			if !local[ref] {
				refs = append(refs, ref)
			}
		})
	}

	for _, ref := range refs {
		if r.seen[ref] || r.defined[ref] {
			continue
		}
		err := r.collect(ref)
		if model.KindOf(err) == model.KindTemplateNotFound {
			// may still be a {{define}} in some other file
			r.seen[ref] = true
			r.pending = append(r.pending, ref)
			continue
		}
		if err != nil {
			return err
		}
	}

	r.order = append(r.order, source{name: name, text: text})
	return nil
}

func walkTemplateRefs(n parse.Node, fn func(string)) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walkTemplateRefs(c, fn)
		}
	case *parse.TemplateNode:
		fn(n.Name)
	case *parse.IfNode:
		walkTemplateRefs(n.List, fn)
		walkTemplateRefs(n.ElseList, fn)
	case *parse.RangeNode:
		walkTemplateRefs(n.List, fn)
		walkTemplateRefs(n.ElseList, fn)
	case *parse.WithNode:
		walkTemplateRefs(n.List, fn)
		walkTemplateRefs(n.ElseList, fn)
	}
}

func buildHTML(name string, order []source) (*htmltemplate.Template, error) {
	root := htmltemplate.New(name)
	for _, src := range order {
		t := root
		if src.name != name {
			t = root.New(src.name)
		}
		if _, err := t.Parse(src.text); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func buildText(name string, order []source) (*texttemplate.Template, error) {
	root := texttemplate.New(name)
	for _, src := range order {
		t := root
		if src.name != name {
			t = root.New(src.name)
		}
		if _, err := t.Parse(src.text); err != nil {
			return nil, err
		}
	}
	return root, nil
}
