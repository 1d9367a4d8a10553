package mimic

import (
	"github.com/nieomylnieja/mimic/pkg/schema"
)

// Mimic extracts the paths of provider and generates a single document from them.
func Mimic(provider schema.Provider, opts ...GenerateOption) (Document, error) {
	paths, err := ExtractPaths(provider)
	if err != nil {
		return nil, err
	}
	return GenerateDocument(paths, opts...)
}

// MimicMany is like [Mimic] but generates n documents.
func MimicMany(provider schema.Provider, n int, opts ...GenerateOption) ([]Document, error) {
	paths, err := ExtractPaths(provider)
	if err != nil {
		return nil, err
	}
	return GenerateDocuments(paths, n, opts...)
}
