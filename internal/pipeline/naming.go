package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholders recognised in naming templates.
const (
	PlaceholderName  = "[name]"
	PlaceholderHash  = "[hash]"
	PlaceholderExt   = "[ext]"
	PlaceholderQuery = "[query]"
)

var (
	placeholderPattern = regexp.MustCompile(`\[[^\]]*\]`)
	// a hash placeholder together with the separator in front of it
	hashSegmentPattern = regexp.MustCompile(`[-_.]?\[hash\]`)
)

// NamingTemplate describes output file names for entry bundles and split chunks.
type NamingTemplate struct {
	Pattern      string `json:"pattern"`
	// ChunkPattern names split chunks, it defaults to Pattern
	ChunkPattern string `json:"chunkPattern,omitempty"`
	HashLength   int    `json:"hashLength"`
}

// Note is an observable policy override applied during resolution.
type Note struct {
	Component string `json:"component"`
	Message   string `json:"message"`
}

func (n Note) String() string {
	return n.Component + ": " + n.Message
}

// ResolveNaming validates a naming template for mode. Production requires a
// content hash. Development drops any hash so rebuilds keep stable names, and
// reports that override as a note.
func ResolveNaming(mode Mode, t NamingTemplate) (NamingTemplate, []Note, error) {
	if t.ChunkPattern == "" {
		t.ChunkPattern = t.Pattern
	}
	if t.Pattern == "" {
		return NamingTemplate{}, nil, newConfigError(InvalidNamingTemplate, t.Pattern, "empty pattern")
	}
	if t.HashLength < 0 {
		return NamingTemplate{}, nil, newConfigError(InvalidNamingTemplate, t.Pattern, fmt.Sprintf("negative hash length %d", t.HashLength))
	}
	for _, pattern := range []string{t.Pattern, t.ChunkPattern} {
		if err := validatePlaceholders(pattern); err != nil {
			return NamingTemplate{}, nil, err
		}
	}

	if mode == Production {
		if t.HashLength == 0 {
			return NamingTemplate{}, nil, newConfigError(MissingCacheBust, t.Pattern, "hash length is zero")
		}
		for _, pattern := range []string{t.Pattern, t.ChunkPattern} {
			if !strings.Contains(pattern, PlaceholderHash) {
				return NamingTemplate{}, nil, newConfigError(MissingCacheBust, pattern, "no [hash] placeholder")
			}
		}
		return t, nil, nil
	}

	var notes []Note
	if t.HashLength != 0 {
		notes = append(notes, Note{
			Component: "naming",
			Message:   fmt.Sprintf("hash length %d ignored in development", t.HashLength),
		})
		t.HashLength = 0
	}
	if strings.Contains(t.Pattern, PlaceholderHash) || strings.Contains(t.ChunkPattern, PlaceholderHash) {
		notes = append(notes, Note{
			Component: "naming",
			Message:   "[hash] placeholder removed in development",
		})
		t.Pattern = hashSegmentPattern.ReplaceAllString(t.Pattern, "")
		t.ChunkPattern = hashSegmentPattern.ReplaceAllString(t.ChunkPattern, "")
	}

	return t, notes, nil
}

func validatePlaceholders(pattern string) error {
	for _, token := range placeholderPattern.FindAllString(pattern, -1) {
		switch token {
		case PlaceholderName, PlaceholderHash, PlaceholderExt, PlaceholderQuery:
		default:
			return newConfigError(InvalidNamingTemplate, pattern, "unknown placeholder "+token)
		}
	}
	return nil
}

// Render expands pattern for one output file. The hash is truncated to HashLength.
func (t NamingTemplate) Render(pattern, name, hash, ext, query string) string {
	if len(hash) > t.HashLength {
		hash = hash[:t.HashLength]
	}
	return strings.NewReplacer(
		PlaceholderName, name,
		PlaceholderHash, hash,
		PlaceholderExt, ext,
		PlaceholderQuery, query,
	).Replace(pattern)
}
