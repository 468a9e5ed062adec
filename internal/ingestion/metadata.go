package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata describes where a document came from and fingerprints its text.
type Metadata struct {
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	Format    Format `json:"format,omitempty"`
	Platform  string `json:"platform,omitempty"` // Detected applicant tracking system
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the trimmed text
	Tokens    int    `json:"tokens,omitempty"`   // Positioned tokens recovered from the layout
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
	}
}

// ComputeHash returns the SHA256 hex digest of the trimmed content. Profile
// builders use the same digest as SourceHash.
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
