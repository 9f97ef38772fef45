package dispatch

import (
	"context"

	"peticia-hq/minerva/pkg/activation"
)

// ModuleQuery describes one indeterminate module for the reasoner.
type ModuleQuery struct {
	// ID uniquely identifies the module within the document type.
	ID string `json:"id"`

	// Description is the human-readable summary the reasoner decides from.
	Description string `json:"description"`

	// Category groups related modules, shipped as extra context.
	Category string `json:"category,omitempty"`
}

// Request is one batched reasoner call: every indeterminate module of one
// generation request, plus the minimal variable subset their rules
// reference. Raw source documents never cross this boundary.
type Request struct {
	// DocumentType is the document type being generated.
	DocumentType string `json:"document_type"`

	// Modules lists the modules awaiting a verdict.
	Modules []ModuleQuery `json:"modules"`

	// Variables maps slug to the raw value for every variable any module
	// in the batch references.
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Response is the reasoner's verdict set for one Request.
type Response struct {
	// Verdicts maps module id to verdict. Ids missing from the map fail
	// closed to Skip at the dispatch layer.
	Verdicts map[string]activation.Verdict `json:"verdicts"`
}

// Reasoner is the external LLM boundary. Implementations answer one
// batched request with one verdict per module and must respect the
// context deadline.
type Reasoner interface {
	Decide(ctx context.Context, req *Request) (*Response, error)
}
