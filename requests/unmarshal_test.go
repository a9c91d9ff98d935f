package requests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/adapters"
)

func TestGetNodeType(t *testing.T) {
	nodeType, err := GetNodeType([]byte(`{"type":"file","path":"/a/b"}`))
	require.NoError(t, err)
	assert.Equal(t, filetree.FileNodeType, nodeType)

	_, err = GetNodeType([]byte(`not json`))
	assert.Error(t, err)
}

func TestUnmarshalFileRequest(t *testing.T) {
	reg := adapters.NewBuiltinRegistry()
	data := []byte(`{
		"type": "file",
		"path": "/r/f.txt",
		"uuid": "fixed-id",
		"sources": [
			{"type": "http", "url": "http://example.com/f.txt", "priority": 5},
			{"type": "inline", "text": "fallback"}
		]
	}`)

	req, err := UnmarshalFileRequest(reg, data)
	require.NoError(t, err)

	assert.Equal(t, "/r/f.txt", req.Path)
	assert.Equal(t, filetree.FileNodeType, req.Type)
	assert.Equal(t, "fixed-id", req.UUID)
	require.Len(t, req.Sources, 2)
	assert.Equal(t, 5, req.Sources[0].Priority)
	assert.IsType(t, &adapters.HTTPSource{}, req.Sources[0].ContentProvider)
	assert.Equal(t, 1, req.Sources[1].Priority, "priority defaults to array index")

	content, err := req.Sources[1].Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), content)
}

func TestUnmarshalFileRequest_UnknownSource(t *testing.T) {
	reg := adapters.NewBuiltinRegistry()
	_, err := UnmarshalFileRequest(reg, []byte(`{"type":"file","path":"/r/f","sources":[{"type":"ftp"}]}`))
	assert.ErrorIs(t, err, adapters.ErrUnknownSourceType)
}

func TestUnmarshalDirRequest_DefaultUUID(t *testing.T) {
	req, err := UnmarshalDirRequest([]byte(`{"type":"dir","path":"/r/d"}`))
	require.NoError(t, err)

	assert.Equal(t, "/r/d", req.Path)
	assert.Equal(t, filetree.DirNodeType, req.Type)
	_, err = uuid.Parse(req.UUID)
	assert.NoError(t, err, "generated UUID should be valid")
}

func TestUnmarshalManifest(t *testing.T) {
	reg := adapters.NewBuiltinRegistry()
	data := []byte(`[
		{"type": "file", "path": "/r/a/one.txt", "sources": [{"type": "inline", "text": "1"}]},
		{"type": "dir", "path": "/r/b"},
		{"type": "dir", "path": "/r/a"}
	]`)

	m, err := UnmarshalManifest(reg, data)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	require.Len(t, m.Dirs, 2)
	assert.Equal(t, "/r/b", m.Dirs[0].Path)
	assert.Equal(t, "/r/a", m.Dirs[1].Path)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "/r/a/one.txt", m.Files[0].Path)

	_, err = UnmarshalManifest(reg, []byte(`[{"type":"symlink","path":"/r/l"}]`))
	assert.ErrorIs(t, err, ErrUnknownNodeType)

	_, err = UnmarshalManifest(reg, []byte(`{"type":"dir"}`))
	assert.Error(t, err, "manifest must be an array")
}

func TestLoadManifestFile(t *testing.T) {
	reg := adapters.NewBuiltinRegistry()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- type: dir
  path: /r/docs
- type: file
  path: /r/docs/readme.md
  sources:
    - type: inline
      base64: aGk=
      priority: 2
`), 0o644))

	m, err := LoadManifestFile(reg, yamlPath)
	require.NoError(t, err)
	require.Len(t, m.Dirs, 1)
	require.Len(t, m.Files, 1)
	assert.Equal(t, 2, m.Files[0].Sources[0].Priority)
	content, err := m.Files[0].Sources[0].Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), content)

	jsonPath := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"type":"dir","path":"/r"}]`), 0o644))
	m, err = LoadManifestFile(reg, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	txtPath := filepath.Join(dir, "tree.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(`[]`), 0o644))
	_, err = LoadManifestFile(reg, txtPath)
	assert.ErrorContains(t, err, "unsupported manifest file format")

	_, err = LoadManifestFile(reg, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
