package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for activation plan request IDs.
	RequestIDKey contextKey = "request_id"

	// DocumentTypeKey is the context key for document types.
	DocumentTypeKey contextKey = "document_type"
)

// WithRequestID adds a plan request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the plan request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithDocumentType adds a document type to the context.
func WithDocumentType(ctx context.Context, documentType string) context.Context {
	return context.WithValue(ctx, DocumentTypeKey, documentType)
}

// GetDocumentType retrieves the document type from the context.
func GetDocumentType(ctx context.Context) string {
	if documentType, ok := ctx.Value(DocumentTypeKey).(string); ok {
		return documentType
	}
	return ""
}

// FromContext returns a logger annotated with every known field present in
// the context.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	if documentType := GetDocumentType(ctx); documentType != "" {
		logger = logger.With("document_type", documentType)
	}
	return logger
}
