package overrides

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

// ErrNotFound is returned when the overrides file does not exist.
var ErrNotFound = errors.New("overrides file not found")

// envReference matches ${VAR} references.
var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader handles loading and parsing of the theme overrides file
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a new overrides loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Path returns the path of the overrides file.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the overrides file. An empty file yields empty
// overrides; unknown keys are rejected. ${VAR} references are expanded
// inside scalar values, so a variable can never change the document shape.
func (l *Loader) Load() (theme.Overrides, error) {
	var o theme.Overrides

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return o, fmt.Errorf("%w: %s", ErrNotFound, l.filePath)
		}
		return o, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return o, fmt.Errorf("failed to parse overrides yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return o, nil
	}
	l.expandEnv(&doc)

	// Node.Decode ignores KnownFields, so the expanded tree goes through a
	// strict decoder again.
	expanded, err := yaml.Marshal(&doc)
	if err != nil {
		return o, fmt.Errorf("failed to encode expanded overrides: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return theme.Overrides{}, nil
		}
		return theme.Overrides{}, fmt.Errorf("failed to parse overrides yaml: %w", err)
	}

	return o, nil
}

// expandEnv replaces ${VAR} references in scalar values with the variable's
// value. Mapping keys are left alone. Unset variables are left as written
// so the mistake shows up in validation.
func (l *Loader) expandEnv(node *yaml.Node) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			l.expandEnv(child)
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			l.expandEnv(node.Content[i])
		}
	case yaml.ScalarNode:
		expanded := envReference.ReplaceAllStringFunc(node.Value, func(ref string) string {
			name := envReference.FindStringSubmatch(ref)[1]
			if v, ok := l.lookup(name); ok {
				return v
			}
			return ref
		})
		if expanded == node.Value {
			return
		}
		node.Value = expanded
		// Integers stay usable for numeric fields, anything else is a string
		// whatever it now looks like.
		if _, err := strconv.Atoi(expanded); err == nil {
			node.Tag, node.Style = "!!int", 0
			return
		}
		node.Tag, node.Style = "!!str", yaml.DoubleQuotedStyle
	}
}
