package filesystem

import (
	"os"
	"testing"
	"time"

	"github.com/brettbedarf/filetree"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Attr(t *testing.T) {
	tree := newTestTree(t, 0)
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 500, time.UTC)
	tree.arena.now = func() time.Time { return stamp }

	content := make([]byte, 1000)
	require.NoError(t, tree.InsertFile("/r/f.bin", content))

	attr, err := tree.Attr("/r/f.bin")
	require.NoError(t, err)
	info, err := tree.Info("/r/f.bin")
	require.NoError(t, err)

	assert.Equal(t, info.ID, attr.Ino)
	assert.Equal(t, uint64(1000), attr.Size)
	assert.Equal(t, uint64(2), attr.Blocks)
	assert.Equal(t, uint32(fuse.S_IFREG|0o644), attr.Mode)
	assert.Equal(t, uint32(1), attr.Nlink)
	assert.Equal(t, uint32(4096), attr.Blksize)
	assert.Equal(t, uint32(os.Getuid()), attr.Uid)
	assert.Equal(t, uint64(stamp.Unix()), attr.Mtime)
	assert.Equal(t, uint32(500), attr.Mtimensec)
	assert.Equal(t, uint64(stamp.Unix()), attr.Ctime)

	dirAttr, err := tree.Attr("/r")
	require.NoError(t, err)
	assert.Equal(t, uint32(fuse.S_IFDIR|0o755), dirAttr.Mode)
	assert.Equal(t, uint32(2), dirAttr.Nlink)
	assert.Equal(t, uint64(0), dirAttr.Size)
	assert.Equal(t, uint64(0), dirAttr.Blocks)

	_, err = tree.Attr("/r/missing")
	assert.ErrorIs(t, err, filetree.ErrNoSuchPath)
}
