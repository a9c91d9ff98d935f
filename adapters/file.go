package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/brettbedarf/filetree"
)

// FileSource reads content from a file on the local disk
type FileSource struct {
	Path string `json:"path"`
}

func NewFileSource(raw []byte) (filetree.ContentProvider, error) {
	var src FileSource
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}
	src.Path = strings.TrimSpace(src.Path)
	if src.Path == "" {
		return nil, fmt.Errorf("%w: file source needs a path", ErrInvalidSource)
	}
	return &src, nil
}

func (s *FileSource) Content(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.Path)
}
