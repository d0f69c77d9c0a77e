package model

import (
	"errors"
	"fmt"
)

// Kind classifies the failures the generator reports to the user.
type Kind int

const (
	KindUnknown = Kind(iota)
	KindOutputAlreadyExists
	KindConfigNotFound
	KindConfigParseError
	KindTemplateNotFound
	KindTemplateSyntaxError
	KindMalformedEntry
)

func (k Kind) String() string {
	switch k {
	case KindOutputAlreadyExists:
		return "output-already-exists"
	case KindConfigNotFound:
		return "config-not-found"
	case KindConfigParseError:
		return "config-parse-error"
	case KindTemplateNotFound:
		return "template-not-found"
	case KindTemplateSyntaxError:
		return "template-syntax-error"
	case KindMalformedEntry:
		return "malformed-entry"
	default:
		return "<unknown>"
	}
}

var (
	ErrOutputAlreadyExists = errors.New("already exists")
	ErrConfigNotFound      = errors.New("not found")
	ErrConfigParse         = errors.New("invalid config")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateSyntax      = errors.New("template syntax error")
	ErrMalformedEntry      = errors.New("malformed entry")
)

var sentinels = map[Kind]error{
	KindOutputAlreadyExists: ErrOutputAlreadyExists,
	KindConfigNotFound:      ErrConfigNotFound,
	KindConfigParseError:    ErrConfigParse,
	KindTemplateNotFound:    ErrTemplateNotFound,
	KindTemplateSyntaxError: ErrTemplateSyntax,
	KindMalformedEntry:      ErrMalformedEntry,
}

// Error is a classified generator failure. Subject is the offending path or
// template name, Err the underlying cause (may be nil).
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

func NewError(k Kind, subject string, cause error) *Error {
	return &Error{Kind: k, Subject: subject, Err: cause}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindOutputAlreadyExists:
		return fmt.Sprintf("'%s' already exists", e.Subject)
	case KindConfigNotFound, KindTemplateNotFound:
		return fmt.Sprintf("'%s' not found", e.Subject)
	}
	if e.Err != nil {
		return fmt.Sprintf("'%s'\n%s", e.Subject, e.Err.Error())
	}
	return fmt.Sprintf("'%s'", e.Subject)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so callers can write
// errors.Is(err, model.ErrTemplateNotFound).
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
