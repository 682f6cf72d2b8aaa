package ingest

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ReadChatExport reads one plain-text chat export in full. The only
// requirement on the upload is that it decodes as text; size and inner
// format are unconstrained.
func ReadChatExport(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading chat export: %w", err)
	}
	if !utf8.Valid(data) {
		return "", errors.New("chat export is not decodable as text")
	}
	return string(data), nil
}
