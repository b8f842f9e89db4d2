package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a configuration authoring defect.
type ErrorKind string

const (
	DuplicateTransformTarget ErrorKind = "DuplicateTransformTarget"
	DuplicatePlugin          ErrorKind = "DuplicatePlugin"
	MissingCacheBust         ErrorKind = "MissingCacheBust"
	UnknownTransformOption   ErrorKind = "UnknownTransformOption"
	UnknownTransformStep     ErrorKind = "UnknownTransformStep"
	EmptyTransformChain      ErrorKind = "EmptyTransformChain"
	InvalidMatcher           ErrorKind = "InvalidMatcher"
	InvalidNamingTemplate    ErrorKind = "InvalidNamingTemplate"
	InvalidDeclaration       ErrorKind = "InvalidDeclaration"
)

var (
	// ErrDuplicateTransformTarget indicates two rules share a matcher
	ErrDuplicateTransformTarget = errors.New("duplicate transform target")
	// ErrDuplicatePlugin indicates two active plugin steps share a name
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	// ErrMissingCacheBust indicates a production naming template without a content hash
	ErrMissingCacheBust = errors.New("missing cache bust")
	// ErrUnknownTransformOption indicates a transform option outside the recognised set
	ErrUnknownTransformOption = errors.New("unknown transform option")
	// ErrUnknownTransformStep indicates a transform step missing from the catalog
	ErrUnknownTransformStep = errors.New("unknown transform step")
	// ErrEmptyTransformChain indicates a rule without transform steps
	ErrEmptyTransformChain = errors.New("empty transform chain")
	// ErrInvalidMatcher indicates a pattern that does not compile
	ErrInvalidMatcher = errors.New("invalid matcher")
	// ErrInvalidNamingTemplate indicates an unknown placeholder in a naming template
	ErrInvalidNamingTemplate = errors.New("invalid naming template")
	// ErrInvalidDeclaration indicates a malformed declaration bundle
	ErrInvalidDeclaration = errors.New("invalid declaration")
)

var sentinels = map[ErrorKind]error{
	DuplicateTransformTarget: ErrDuplicateTransformTarget,
	DuplicatePlugin:          ErrDuplicatePlugin,
	MissingCacheBust:         ErrMissingCacheBust,
	UnknownTransformOption:   ErrUnknownTransformOption,
	UnknownTransformStep:     ErrUnknownTransformStep,
	EmptyTransformChain:      ErrEmptyTransformChain,
	InvalidMatcher:           ErrInvalidMatcher,
	InvalidNamingTemplate:    ErrInvalidNamingTemplate,
	InvalidDeclaration:       ErrInvalidDeclaration,
}

// ConfigError reports a static configuration defect along with the declaration
// that caused it. It unwraps to the sentinel error for its kind.
type ConfigError struct {
	Kind        ErrorKind
	Declaration string
	Detail      string
	Err         error
}

func newConfigError(kind ErrorKind, declaration, detail string) *ConfigError {
	return &ConfigError{Kind: kind, Declaration: declaration, Detail: detail}
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind, e.Declaration)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := sentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first ConfigError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind, true
	}
	return "", false
}
