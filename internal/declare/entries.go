package declare

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var errEntryShape = errors.New("entry must map entry names to paths")

// Entry is one named entry point.
type Entry struct {
	Name string
	Path string
}

// Entries keeps entry points in the order they are written in the file.
type Entries []Entry

func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %w", node.Line, errEntryShape)
	}

	out := make(Entries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var entry Entry
		if err := node.Content[i].Decode(&entry.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&entry.Path); err != nil {
			return err
		}
		out = append(out, entry)
	}
	*e = out
	return nil
}

func (e *Entries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errEntryShape
	}

	out := Entries{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			break
		}
		name, ok := tok.(string)
		if !ok {
			return errEntryShape
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		path, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: %s", errEntryShape, name)
		}
		out = append(out, Entry{Name: name, Path: path})
	}
	*e = out
	return nil
}
