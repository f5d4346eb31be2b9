package stats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a stats file. JSON input is accepted since YAML is a superset.
func Load(path string) (Wrapped, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Wrapped{}, fmt.Errorf("failed to read stats file: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return Wrapped{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse decodes and checks a stats document. Every missing field, unknown
// field and wrong kind is reported in one ValidationErrors.
func Parse(data []byte) (Wrapped, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Wrapped{}, fmt.Errorf("failed to parse stats: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Wrapped{}, ValidationErrors{{Field: "(document)", Problem: "empty stats document"}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Wrapped{}, ValidationErrors{{Field: "(document)", Problem: "stats must be a mapping of field names to values"}}
	}

	values := make(map[string]*yaml.Node, len(root.Content)/2)
	var errs ValidationErrors
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		if _, dup := values[key]; dup {
			errs = append(errs, ValidationError{Field: key, Problem: "duplicate field"})
			continue
		}
		values[key] = val
	}

	declared := make(map[string]bool, len(Schema))
	for _, f := range Schema {
		declared[f.Name] = true
		val, ok := values[f.Name]
		if !ok {
			errs = append(errs, ValidationError{Field: f.Name, Problem: fmt.Sprintf("required %s is missing", f.Kind)})
			continue
		}
		if got := kindOf(val); got != f.Kind.String() {
			errs = append(errs, ValidationError{Field: f.Name, Problem: fmt.Sprintf("expected %s, got %s", f.Kind, got)})
		}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if key := root.Content[i].Value; !declared[key] {
			errs = append(errs, ValidationError{Field: key, Problem: "unknown field"})
		}
	}
	if len(errs) > 0 {
		return Wrapped{}, errs
	}

	var w Wrapped
	if err := root.Decode(&w); err != nil {
		return Wrapped{}, fmt.Errorf("failed to decode stats: %w", err)
	}
	if err := w.Validate(); err != nil {
		return Wrapped{}, err
	}
	return w, nil
}

// kindOf names the kind of a YAML value the way error messages report it.
func kindOf(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.AliasNode:
		if n.Alias != nil {
			return kindOf(n.Alias)
		}
		return "alias"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return KindNumber.String()
		case "!!str":
			return KindString.String()
		case "!!null":
			return "null"
		case "!!bool":
			return "bool"
		default:
			return n.ShortTag()
		}
	}
	return "unknown"
}

// IsValidation reports whether err carries field-level problems.
func IsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Marshal encodes w as YAML in schema order.
func Marshal(w Wrapped) ([]byte, error) {
	return yaml.Marshal(w)
}
