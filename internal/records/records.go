// Package records is the registry of schema-definition types the installer
// discovers at startup.
//
// Each candidate declares its kind up front, so discovery never has to inspect
// a type at runtime to learn whether it is abstract. A candidate is installable
// when it is concrete, its name matches the discovery pattern and its instance
// can create its own table.
package records

import (
	"context"
	"fmt"
	"path"

	"github.com/maloquacious/goobcms/internal/store"
)

// DefaultPattern matches the names of installable records.
const DefaultPattern = "*Record"

// Kind classifies a candidate.
type Kind int

const (
	Concrete Kind = iota
	Abstract
	Interface
)

func (k Kind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Abstract:
		return "abstract"
	case Interface:
		return "interface"
	}
	return "unknown"
}

// TableCreator is implemented by records that can create their own table.
type TableCreator interface {
	CreateTable(ctx context.Context, db store.DBTX) error
}

// ForeignKeyAdder is implemented by records that can attach their own foreign keys.
type ForeignKeyAdder interface {
	AddForeignKeys(ctx context.Context, db store.DBTX) error
}

// Candidate is one registered schema-definition type.
type Candidate struct {
	Name string
	Kind Kind
	New  func() any // nil for interface candidates
}

// Registry keeps candidates in registration order.
type Registry struct {
	candidates []Candidate
	names      map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: map[string]bool{}}
}

// Register adds a candidate. Names must be unique.
func (r *Registry) Register(c Candidate) error {
	if c.Name == "" {
		return fmt.Errorf("candidate name is required")
	}
	if r.names[c.Name] {
		return fmt.Errorf("candidate %q already registered", c.Name)
	}
	if c.Kind == Concrete && c.New == nil {
		return fmt.Errorf("concrete candidate %q has no constructor", c.Name)
	}
	r.names[c.Name] = true
	r.candidates = append(r.candidates, c)
	return nil
}

// Candidates returns a copy of the registered candidates.
func (r *Registry) Candidates() []Candidate {
	out := make([]Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Installable is a discovered record together with its registered name.
type Installable struct {
	Name   string
	Record TableCreator
}

// AddForeignKeys attaches the record's foreign keys when it can; records
// without that capability are left alone.
func (i Installable) AddForeignKeys(ctx context.Context, db store.DBTX) error {
	if fk, ok := i.Record.(ForeignKeyAdder); ok {
		return fk.AddForeignKeys(ctx, db)
	}
	return nil
}

// Discover returns the installable records among candidates, in the order given.
func Discover(pattern string, candidates []Candidate) ([]Installable, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad record pattern %q: %w", pattern, err)
	}
	var out []Installable
	for _, c := range candidates {
		if ok, _ := path.Match(pattern, c.Name); !ok {
			continue
		}
		if c.Kind != Concrete || c.New == nil {
			continue
		}
		tc, ok := c.New().(TableCreator)
		if !ok {
			continue
		}
		out = append(out, Installable{Name: c.Name, Record: tc})
	}
	return out, nil
}
