package catalog

import (
	"fmt"

	"peticia-hq/minerva/pkg/rules/ast"
)

// Catalog is the ordered set of modules available for one document type.
// Immutable after construction; safe for concurrent reads.
type Catalog struct {
	documentType string
	modules      []*Module
	byID         map[string]*Module
}

// New creates a catalog for the given document type. It rejects duplicate
// module IDs and structurally invalid modules (see Module.Validate).
func New(documentType string, modules []*Module) (*Catalog, error) {
	if documentType == "" {
		return nil, fmt.Errorf("catalog has no document type")
	}

	byID := make(map[string]*Module, len(modules))
	ordered := make([]*Module, 0, len(modules))
	for _, m := range modules {
		if m == nil {
			return nil, fmt.Errorf("catalog %q: nil module", documentType)
		}
		if err := m.Validate(ast.DefaultMaxDepth); err != nil {
			return nil, fmt.Errorf("catalog %q: %w", documentType, err)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("catalog %q: duplicate module id %q", documentType, m.ID)
		}
		byID[m.ID] = m
		ordered = append(ordered, m)
	}

	return &Catalog{
		documentType: documentType,
		modules:      ordered,
		byID:         byID,
	}, nil
}

// DocumentType returns the document type this catalog serves.
func (c *Catalog) DocumentType() string {
	return c.documentType
}

// Modules returns the modules in catalog order. The slice is a copy; the
// modules themselves are shared and must be treated as immutable.
func (c *Catalog) Modules() []*Module {
	modules := make([]*Module, len(c.modules))
	copy(modules, c.modules)
	return modules
}

// Get returns the module with the given ID, or nil if absent.
func (c *Catalog) Get(id string) *Module {
	return c.byID[id]
}

// Len returns the number of modules in the catalog.
func (c *Catalog) Len() int {
	return len(c.modules)
}
