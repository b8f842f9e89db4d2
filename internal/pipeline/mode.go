package pipeline

import (
	"fmt"
	"strings"
)

// Mode is the build environment that gates naming, optimization and plugin policy.
type Mode int

const (
	Production Mode = iota
	Development
)

// ParseMode maps a NODE_ENV value to a Mode. Only the exact string
// "development" selects Development, everything else (including an empty
// value or "Development") is Production.
func ParseMode(env string) Mode {
	if env == "development" {
		return Development
	}
	return Production
}

// ParseModeStrict parses a mode name used inside declaration files.
func ParseModeStrict(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "development":
		return Development, nil
	case "production":
		return Production, nil
	}
	return 0, newConfigError(InvalidDeclaration, name, "unknown mode")
}

func (m Mode) String() string {
	switch m {
	case Development:
		return "development"
	case Production:
		return "production"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseModeStrict(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Modes lists every mode, in a stable order.
func Modes() []Mode {
	return []Mode{Development, Production}
}
