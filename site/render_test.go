package site

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/adnsv/insta485generator/logging"
	"github.com/adnsv/insta485generator/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "", NormalizeURL("/"))
	assert.Equal(t, "a/b", NormalizeURL("/a/b"))
	assert.Equal(t, "a/b", NormalizeURL("a/b"))
	assert.Equal(t, "/a", NormalizeURL("//a"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/out/index.html", OutputPath("/out", "/"))
	assert.Equal(t, "/out/index.html", OutputPath("/out", ""))
	assert.Equal(t, "/out/a/b/index.html", OutputPath("/out", "/a/b"))
	assert.Equal(t, "/out/a/b/index.html", OutputPath("/out", "a/b/"))
}

func TestRender(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/index.html": "<h1>{{.title}}</h1><p>{{.n}}</p>",
	})
	log := &bytes.Buffer{}
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", logging.New(log, true))

	fn, err := r.Render(0, model.NewPage("/", "index.html", map[string]any{
		"title": "Tom & Jerry",
		"n":     json.Number("10000000"),
	}))
	require.NoError(t, err)
	assert.Equal(t, "/out/index.html", fn)
	assert.Equal(t, "<h1>Tom &amp; Jerry</h1><p>10000000</p>", readFile(t, fs, fn))
	assert.Equal(t, "Rendered index.html -> /out/index.html\n", log.String())
}

func TestRenderLeadingSlash(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/page.html": "{{.v}}",
	})
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	_, err := r.Render(0, model.NewPage("/a/b", "page.html", map[string]any{"v": "first"}))
	require.NoError(t, err)
	assert.Equal(t, "first", readFile(t, fs, "/out/a/b/index.html"))

	_, err = r.Render(1, model.NewPage("a/b", "page.html", map[string]any{"v": "second"}))
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, fs, "/out/a/b/index.html"))
}

func TestRenderSharedPrefix(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/page.html": "{{.v}}",
	})
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	for i, url := range []string{"/u/", "/u/a/", "/u/b/"} {
		_, err := r.Render(i, model.NewPage(url, "page.html", map[string]any{"v": url}))
		require.NoError(t, err)
	}
	assert.Equal(t, "/u/", readFile(t, fs, "/out/u/index.html"))
	assert.Equal(t, "/u/a/", readFile(t, fs, "/out/u/a/index.html"))
	assert.Equal(t, "/u/b/", readFile(t, fs, "/out/u/b/index.html"))
}

func TestRenderMissingContext(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/page.html": "static",
	})
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	_, err := r.Render(0, model.NewPage("/", "page.html", nil))
	require.NoError(t, err)
	assert.Equal(t, "static", readFile(t, fs, "/out/index.html"))
}

func TestRenderMalformedEntry(t *testing.T) {
	fs := newSite(t, nil)
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	m, err := model.ParseManifest([]byte(`[{"template": "page.html"}, null]`))
	require.NoError(t, err)

	_, err = r.Render(0, m[0])
	assert.ErrorIs(t, err, model.ErrMalformedEntry)
	assert.Equal(t, "'config.json entry #1'\nmissing \"url\" field", err.Error())

	_, err = r.Render(1, m[1])
	assert.ErrorIs(t, err, model.ErrMalformedEntry)
	assert.False(t, exists(t, fs, "/out"))
}

func TestRenderTemplateNotFound(t *testing.T) {
	fs := newSite(t, nil)
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	_, err := r.Render(0, model.NewPage("/x/", "missing.html", nil))
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
	assert.False(t, exists(t, fs, "/out/x"))
}

func TestRenderExecutionError(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/page.html": "{{index .list 5}}",
	})
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	_, err := r.Render(0, model.NewPage("/", "page.html", map[string]any{"list": []any{1}}))
	require.Error(t, err)
	assert.Equal(t, model.KindUnknown, model.KindOf(err))
	assert.Contains(t, err.Error(), "rendering 'page.html'")
	assert.False(t, exists(t, fs, "/out/index.html"))
}

func TestRenderEscapeErrorLeavesNoDirectory(t *testing.T) {
	fs := newSite(t, map[string]string{
		"/in/templates/link.html": `<a href="{{.u}}`,
	})
	r := NewRenderer(fs, NewEngine(fs, "/in/templates"), "/out", nil)

	_, err := r.Render(0, model.NewPage("/x/", "link.html", map[string]any{"u": "y"}))
	assert.ErrorIs(t, err, model.ErrTemplateSyntax)
	assert.False(t, exists(t, fs, "/out/x"))
	assert.False(t, exists(t, fs, "/out"))
}
