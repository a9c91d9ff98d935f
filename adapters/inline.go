package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/brettbedarf/filetree"
)

// InlineSource carries file content in the manifest itself, either as
// plain text or base64. Exactly one of the two must be set.
type InlineSource struct {
	Text   *string `json:"text,omitempty"`
	Base64 *string `json:"base64,omitempty"`
}

func NewInlineSource(raw []byte) (filetree.ContentProvider, error) {
	var src InlineSource
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}
	if (src.Text == nil) == (src.Base64 == nil) {
		return nil, fmt.Errorf("%w: inline source needs exactly one of text or base64", ErrInvalidSource)
	}
	if src.Base64 != nil {
		if _, err := base64.StdEncoding.DecodeString(*src.Base64); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}
	}
	return &src, nil
}

// Content returns a fresh copy on every call since the tree takes ownership.
func (s *InlineSource) Content(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Base64 != nil {
		return base64.StdEncoding.DecodeString(*s.Base64)
	}
	return []byte(*s.Text), nil
}
