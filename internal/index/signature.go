package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Signature identifies one version of a document on disk.
type Signature struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// SignatureOf stats path and returns its signature.
func SignatureOf(path string) (Signature, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Signature{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Signature{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return Signature{}, fmt.Errorf("%s is a directory", abs)
	}
	return Signature{Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// String is the stored form of the signature.
func (s Signature) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseSignature decodes a stored signature.
func ParseSignature(raw string) (Signature, error) {
	var sig Signature
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return Signature{}, fmt.Errorf("decode signature: %w", err)
	}
	return sig, nil
}

// Equal compares two signatures field by field.
func (s Signature) Equal(other Signature) bool {
	return s.Path == other.Path && s.Size == other.Size && s.ModTime.Equal(other.ModTime)
}
