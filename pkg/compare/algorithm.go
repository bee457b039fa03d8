package compare

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm names a digest usable by HashComparator
type Algorithm struct {
	Name    string
	NewFunc func() hash.Hash
}

// DefaultAlgorithm is used when none is configured
const DefaultAlgorithm = "sha256"

// Algorithms lists the supported digest names
func Algorithms() []string {
	return []string{"sha256", "sha512", "sha1", "md5"}
}

// GetAlgorithm returns the digest configuration for name
func GetAlgorithm(name string) (*Algorithm, error) {
	switch strings.ToLower(name) {
	case "", "sha256":
		return &Algorithm{Name: "sha256", NewFunc: sha256.New}, nil
	case "sha512":
		return &Algorithm{Name: "sha512", NewFunc: sha512.New}, nil
	case "sha1":
		return &Algorithm{Name: "sha1", NewFunc: sha1.New}, nil
	case "md5":
		return &Algorithm{Name: "md5", NewFunc: md5.New}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s (use: %s)", name, strings.Join(Algorithms(), ", "))
	}
}
