package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const ConfigFileName = "config.json"

// Page is one manifest entry: render Template with Context into URL.
type Page struct {
	URL      string         `json:"url"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context"`

	hasURL      bool
	hasTemplate bool
	shapeErr    error // entry was valid JSON of the wrong shape
}

// Manifest is the ordered list of pages to generate.
type Manifest []*Page

func (p *Page) UnmarshalJSON(buf []byte) error {
	type pageLoader struct {
		URL      *string        `json:"url"`
		Template *string        `json:"template"`
		Context  map[string]any `json:"context"`
	}

	// decode through a Decoder so numbers stay json.Number
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	t := pageLoader{}
	if err := dec.Decode(&t); err != nil {
		// kept for Validate, so earlier entries still get rendered; offsets
		// in err are relative to this entry, drop them
		*p = Page{shapeErr: fmt.Errorf("invalid page entry: %v", err)}
		return nil
	}

	*p = Page{Context: t.Context}
	if t.URL != nil {
		p.URL, p.hasURL = *t.URL, true
	}
	if t.Template != nil {
		p.Template, p.hasTemplate = *t.Template, true
	}
	return nil
}

// Validate reports entries that are not objects of the expected field types
// or lack the url or template field. It is not called by the loader; the
// renderer checks each entry when it gets to it.
func (p *Page) Validate() error {
	switch {
	case p.shapeErr != nil:
		return p.shapeErr
	case !p.hasURL:
		return errors.New(`missing "url" field`)
	case !p.hasTemplate:
		return errors.New(`missing "template" field`)
	}
	return nil
}

// NewPage builds an entry in code, with both required fields present.
func NewPage(url, template string, context map[string]any) *Page {
	return &Page{
		URL:         url,
		Template:    template,
		Context:     context,
		hasURL:      true,
		hasTemplate: true,
	}
}

// ConfigPath returns the manifest location inside inputDir.
func ConfigPath(inputDir string) string {
	return filepath.Join(inputDir, ConfigFileName)
}

// LoadManifest reads and decodes <inputDir>/config.json from fsys.
func LoadManifest(fsys afero.Fs, inputDir string) (Manifest, error) {
	fn := ConfigPath(inputDir)

	buf, err := afero.ReadFile(fsys, fn)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewError(KindConfigNotFound, fn, err)
	} else if err != nil {
		return nil, err
	}

	m, err := ParseManifest(buf)
	if err != nil {
		return nil, NewError(KindConfigParseError, fn, err)
	}
	return m, nil
}

// ParseManifest decodes a manifest document. Syntax errors carry the
// line:column where the decoder stopped. Entries of the wrong shape are kept
// and reported by Page.Validate; a document that is not an array becomes a
// single such entry.
func ParseManifest(buf []byte) (Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(buf))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, positionError(buf, err)
	}
	// only whitespace may follow the document
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("invalid data after top-level value at %s",
			Locate(buf, dec.InputOffset()))
	} else if err != io.EOF {
		return nil, positionError(buf, err)
	}

	switch raw[0] {
	case '[':
	case 'n': // null
		return Manifest{}, nil
	default:
		return Manifest{{shapeErr: errNotArray}}, nil
	}

	m := Manifest{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

var errNotArray = errors.New("manifest is not a JSON array")

func positionError(buf []byte, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("%w at %s", err, Locate(buf, syntaxErr.Offset-1))
	case errors.As(err, &typeErr):
		return fmt.Errorf("%w at %s", err, Locate(buf, typeErr.Offset))
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fmt.Errorf("unexpected end of JSON input at %s", Locate(buf, int64(len(buf))))
	}
	return err
}
