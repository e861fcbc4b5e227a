package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/errors"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("id,loan_amnt\n1,1000\n"), 0644))
	return path
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accepted_2.csv")
	writeFile(t, dir, "accepted_1.csv")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "UPPER.CSV")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	require.Len(t, files, 3)
	// Sorted by name for deterministic concatenation order
	assert.Equal(t, "UPPER.CSV", files[0].Name)
	assert.Equal(t, "accepted_1.csv", files[1].Name)
	assert.Equal(t, "accepted_2.csv", files[2].Name)
}

func TestFindCSVFiles_MissingDirectory(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindCSVFiles("does-not-exist")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestFindCSVFiles_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rejected.csv")

	d := NewDiscovery("/somewhere/else")
	files, err := d.FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "rejected.csv"), files[0].Path)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accepted_2007.csv")
	writeFile(t, dir, "accepted_2008.csv")
	writeFile(t, dir, "rejected_2007.csv")

	d := NewDiscovery(dir)
	files, err := d.FindFilesByPattern(".", "accepted_*.csv")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "accepted_2007.csv", files[0].Name)
	assert.Equal(t, "accepted_2008.csv", files[1].Name)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "a.csv", ModTime: now.Add(-2 * time.Hour)},
		{Name: "b.csv", ModTime: now},
		{Name: "c.csv", ModTime: now.Add(-time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "b.csv", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}
