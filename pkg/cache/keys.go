package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Keyer generates cache keys.
type Keyer interface {
	// RankKey keys a ranking result by input hash and ranking options.
	RankKey(inputHash string, opts RankKeyOpts) string

	// ArtifactKey keys a rendered graph export by result hash and format.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// RankKeyOpts holds every option that changes a ranking result.
type RankKeyOpts struct {
	Sentinel      string  `json:"sentinel"`
	Beta          float64 `json:"beta"`
	Iterations    int     `json:"iterations"`
	K             int     `json:"k"`
	Mode          string  `json:"mode"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	Teleport      string  `json:"teleport"`
	Ties          string  `json:"ties"`
	Start         string  `json:"start,omitempty"`
	Seed          uint64  `json:"seed"`
}

// ArtifactKeyOpts holds the options of a graph export.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	EdgeLabels bool   `json:"edge_labels,omitempty"`
	Scores     bool   `json:"scores,omitempty"`
	RankDir    string `json:"rank_dir,omitempty"`
}

// Entry lifetimes.
const (
	TTLRank     = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RankKey returns "rank:<sha256>".
func (DefaultKeyer) RankKey(inputHash string, opts RankKeyOpts) string {
	return hashKey("rank", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashJSON hashes the JSON encoding of v.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// ScopedKeyer wraps a Keyer with a prefix so that several front ends can
// share one backend without sharing entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RankKey generates a prefixed ranking key.
func (k *ScopedKeyer) RankKey(inputHash string, opts RankKeyOpts) string {
	return k.prefix + k.inner.RankKey(inputHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
