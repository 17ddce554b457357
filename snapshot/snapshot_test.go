package snapshot

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/YaLTeR/circular-queue/circular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"state.json", "state.yaml", "state.yml", "state"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			q := circular.WithCapacity[int](3)
			for i := range 5 {
				q.Push(i)
			}
			require.NoError(t, Save(path, q))

			loaded, replayed, err := Load[int](path, 3)
			require.NoError(t, err)
			assert.False(t, replayed)
			assert.True(t, circular.Equal(q, loaded))
			assert.Equal(t, 3, loaded.Cap())
		})
	}
}

func TestSaveFormat(t *testing.T) {
	dir := t.TempDir()
	q := circular.WithCapacity[int](4)
	for i := range 6 {
		q.Push(i)
	}

	require.NoError(t, Save(filepath.Join(dir, "s.json"), q))
	b, err := os.ReadFile(filepath.Join(dir, "s.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"capacity":4,"values":[2,3,4,5]}`, string(b))

	require.NoError(t, Save(filepath.Join(dir, "s.yaml"), q))
	b, err = os.ReadFile(filepath.Join(dir, "s.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "capacity: 4")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestLoadMissing(t *testing.T) {
	q, replayed, err := Load[string](filepath.Join(t.TempDir(), "none.json"), 7)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 7, q.Cap())
}

func TestLoadDifferentCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"capacity":4,"values":[1,2,3,4]}`), 0o600))

	smaller, replayed, err := Load[int](path, 2)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, []int{3, 4}, slices.Collect(smaller.Ascending()))

	larger, replayed, err := Load[int](path, 6)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, []int{1, 2, 3, 4}, slices.Collect(larger.Ascending()))
	assert.False(t, larger.IsFull())
}

func TestLoadOversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"capacity":1,"values":[1,2]}`), 0o600))

	_, _, err := Load[int](path, 1)
	assert.ErrorIs(t, err, circular.ErrCapacityExceeded)
}

func TestLoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: [\n"), 0o600))

	_, _, err := Load[int](path, 1)
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 5\nvalues: [a, b]\n"), 0o600))

	q, err := Read[string](path)
	require.NoError(t, err)
	assert.Equal(t, 5, q.Cap())
	assert.Equal(t, []string{"b", "a"}, slices.Collect(q.All()))

	_, err = Read[string](filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMissingFields(t *testing.T) {
	for name, content := range map[string]string{
		"history.json": `{}`,
		"history.yaml": "capacity: 3\n",
	} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, _, err := Load[int](path, 3)
		assert.ErrorContains(t, err, "missing field", name)
	}
}

func TestSaveKeepsPermissions(t *testing.T) {
	q := circular.WithCapacity[int](2)
	q.Push(1)

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, Save(path, q))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0o640))
	q.Push(2)
	require.NoError(t, Save(path, q))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
