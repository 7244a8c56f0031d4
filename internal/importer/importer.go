// Package importer reads balance lists from saved reports instead of running hledger.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// Parser converts a saved report into balances.
type Parser interface {
	Parse(r io.Reader) ([]model.Balance, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
// commodity selects the amount used by the json parser when an account holds several.
func DefaultRegistry(commodity string) *Registry {
	r := NewRegistry()
	r.Register(&JSONParser{Commodity: commodity})
	r.Register(&CSVParser{})
	return r
}

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	}
	return ""
}

// ReadFile parses path with the parser for format.
// An empty format is detected from the extension; "-" reads stdin.
func (r *Registry) ReadFile(path, format string) ([]model.Balance, error) {
	if format == "" {
		format = DetectFormat(path)
		if format == "" {
			return nil, fmt.Errorf("cannot detect format of %s, set --input-format", path)
		}
	}
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	balances, err := p.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return balances, nil
}
