package source_store

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// ContentVersion fingerprints text for change detection.
func ContentVersion(text string) string {
	hash := xxh3.HashString128(text)
	return fmt.Sprintf("%016x%016x", hash.Hi, hash.Lo)
}
