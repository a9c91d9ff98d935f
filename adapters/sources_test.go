package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc    string
		raw     string
		want    []byte
		wantErr bool
	}{
		{"text", `{"type":"inline","text":"hello"}`, []byte("hello"), false},
		{"empty text", `{"type":"inline","text":""}`, []byte{}, false},
		{"base64", `{"type":"inline","base64":"AAEC/w=="}`, []byte{0, 1, 2, 255}, false},
		{"neither", `{"type":"inline"}`, nil, true},
		{"both", `{"type":"inline","text":"a","base64":"YQ=="}`, nil, true},
		{"bad base64", `{"type":"inline","base64":"!!"}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			src, err := NewInlineSource([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSource)
				return
			}
			require.NoError(t, err)

			data, err := src.Content(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestInlineSource_FreshCopies(t *testing.T) {
	t.Parallel()

	src, err := NewInlineSource([]byte(`{"type":"inline","text":"abc"}`))
	require.NoError(t, err)

	first, err := src.Content(context.Background())
	require.NoError(t, err)
	first[0] = 'x'

	second, err := src.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second)
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("on disk"), 0o644))

	src, err := NewFileSource([]byte(`{"type":"file","path":"` + path + `"}`))
	require.NoError(t, err)
	data, err := src.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("on disk"), data)

	missing, err := NewFileSource([]byte(`{"type":"file","path":"` + filepath.Join(dir, "nope") + `"}`))
	require.NoError(t, err)
	_, err = missing.Content(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileSource([]byte(`{"type":"file"}`))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestBuiltinRegistry_NewProvider(t *testing.T) {
	t.Parallel()

	r := NewBuiltinRegistry()
	src, err := r.NewProvider([]byte(`{"type":"inline","text":"via registry"}`))
	require.NoError(t, err)
	assert.IsType(t, &InlineSource{}, src)

	_, err = r.NewProvider([]byte(`{"type":"s3","bucket":"b"}`))
	assert.ErrorIs(t, err, ErrUnknownSourceType)
}
