package domain

import "io"

// MediaStore stores uploaded media and resolves stored references to URLs
// (infrastructure port). References are opaque; only the store interprets them.
type MediaStore interface {
	// Save writes the upload and returns an opaque reference to it.
	// originalName is used only for its extension.
	Save(originalName string, r io.Reader) (ref string, err error)
	// URL resolves a stored reference to the path clients fetch it from.
	URL(ref string) string
}
