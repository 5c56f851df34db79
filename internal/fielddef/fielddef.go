// Package fielddef loads the ordered field definitions that name the columns
// of AWI binary orbit files.
//
// A definition resource is JSON or YAML with a top-level "output" entry. The
// entry is either a mapping whose keys are field names, or a list of names
// (plain strings or mappings with a "name" key). The declaration order is the
// content-flag position, so it is preserved exactly:
//
//	{"output": {"time": {...}, "lon": {...}, "lat": {...}}}
//
// gives time → 0, lon → 1, lat → 2.
package fielddef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

const outputKey = "output"

var errMissingOutput = errors.New(`missing "output" entry`)

// Field is one declared column. Meta holds the value declared for the field,
// decoded generically, or nil for plain list entries.
type Field struct {
	Position int
	Name     string
	Meta     any
}

// Definition is an ordered field list.
type Definition struct {
	Path   string
	Fields []Field
}

// Len is the number of declared fields.
func (d Definition) Len() int { return len(d.Fields) }

// Name returns the field name declared at a flag position.
func (d Definition) Name(position int) (string, bool) {
	if position < 0 || position >= len(d.Fields) {
		return "", false
	}
	return d.Fields[position].Name, true
}

// Names lists the field names in declaration order.
func (d Definition) Names() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Position returns the flag position of the first field called name.
func (d Definition) Position(name string) (int, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Position, true
		}
	}
	return 0, false
}

// Load reads a definition file. YAML is selected by a .yaml or .yml
// extension, anything else is read as JSON. Missing, unreadable, or malformed
// files fail with *domain.ReadError.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, &domain.ReadError{Path: path, Err: err}
	}

	var fields []Field
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		fields, err = parseYAML(data)
	default:
		fields, err = parseJSON(data)
	}
	if err != nil {
		return Definition{}, &domain.ReadError{Path: path, Err: fmt.Errorf("field definition: %w", err)}
	}
	return Definition{Path: path, Fields: fields}, nil
}

// Loader loads definitions by path.
type Loader interface {
	Load(path string) (Definition, error)
}

// FileLoader implements Loader by reading from the filesystem.
type FileLoader struct{}

func (FileLoader) Load(path string) (Definition, error) { return Load(path) }

func parseJSON(data []byte) ([]Field, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	raw, ok := top[outputKey]
	if !ok {
		return nil, errMissingOutput
	}

	// Token-level decoding keeps the key order that map decoding would lose.
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	var fields []Field
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := keyTok.(string)
			var meta any
			if err := dec.Decode(&meta); err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, Field{Position: len(fields), Name: name, Meta: meta})
		}
	case json.Delim('['):
		for dec.More() {
			var item any
			if err := dec.Decode(&item); err != nil {
				return nil, err
			}
			f, err := fieldFromItem(len(fields), item)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	default:
		return nil, fmt.Errorf(`"output" must be an object or array, got %v`, tok)
	}
	return fields, nil
}

func parseYAML(data []byte) ([]Field, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("document is not a mapping")
	}

	var output *yaml.Node
	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value == outputKey {
			output = top.Content[i+1]
			break
		}
	}
	if output == nil {
		return nil, errMissingOutput
	}

	var fields []Field
	switch output.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(output.Content); i += 2 {
			name := output.Content[i].Value
			var meta any
			if err := output.Content[i+1].Decode(&meta); err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, Field{Position: len(fields), Name: name, Meta: meta})
		}
	case yaml.SequenceNode:
		for _, n := range output.Content {
			var item any
			if err := n.Decode(&item); err != nil {
				return nil, err
			}
			f, err := fieldFromItem(len(fields), item)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	default:
		return nil, errors.New(`"output" must be a mapping or a sequence`)
	}
	return fields, nil
}

func fieldFromItem(position int, item any) (Field, error) {
	switch v := item.(type) {
	case string:
		return Field{Position: position, Name: v}, nil
	case map[string]any:
		name, ok := v["name"].(string)
		if !ok {
			return Field{}, fmt.Errorf("entry %d has no name", position)
		}
		return Field{Position: position, Name: name, Meta: v}, nil
	default:
		return Field{}, fmt.Errorf("entry %d: unsupported type %T", position, item)
	}
}
