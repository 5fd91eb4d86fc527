// Package storagekey derives blob-store locators for new file records.
package storagekey

import (
	"strings"

	"github.com/google/uuid"
)

// Generator builds keys of the form users/<ownerID>/files/<id>[.<ext>].
// The id is a UUIDv7 (millisecond timestamp plus random bits), so concurrent
// calls practically never collide; the store's unique index on storage_key is
// still the authoritative guard.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(fileName, ownerID string) string {
	id := uuid.Must(uuid.NewV7())

	var b strings.Builder
	b.WriteString("users/")
	b.WriteString(ownerID)
	b.WriteString("/files/")
	b.WriteString(id.String())
	if ext := Extension(fileName); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// Extension returns the lowercased text after the last '.' in fileName, or ""
// when there is none.
func Extension(fileName string) string {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(fileName[i+1:])
}
