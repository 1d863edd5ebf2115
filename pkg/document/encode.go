package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// Encode renders doc as UTF-8 JSON with two-space indentation. Non-ASCII and
// HTML characters are written literally.
func Encode(doc ModelsDocument) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode parses a models.json payload.
func Decode(data []byte) (ModelsDocument, error) {
	var doc ModelsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ModelsDocument{}, fmt.Errorf("document: decode: %w", err)
	}
	return doc, nil
}

// Write encodes doc and replaces the content of path with it.
func Write(path string, doc ModelsDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	return WriteBytes(path, data)
}

// WriteBytes replaces the content of path with data. There is no atomic
// rename and no backup of the previous content.
func WriteBytes(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // models.json is read by other processes
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}

// ReadPrevious returns the current content of path, or nil when the file does
// not exist yet.
func ReadPrevious(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	return data, nil
}

// Diff returns a unified diff between the previous and next payloads of the
// file called name. It returns "" when they are identical.
func Diff(name string, previous, next []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(previous)),
		B:        difflib.SplitLines(string(next)),
		FromFile: name + " (previous)",
		ToFile:   name,
		Context:  3,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("document: diff: %w", err)
	}

	return out, nil
}
