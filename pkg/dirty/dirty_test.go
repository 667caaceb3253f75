package dirty

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJava(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(body), 0644)
	require.NoError(t, err)
	return path
}

func TestTracker_New(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "default options",
			opts: nil,
		},
		{
			name: "custom cache dir",
			opts: []Option{WithCacheDir(".test-cache")},
		},
		{
			name: "custom cache file",
			opts: []Option{WithCacheFile("test-hashes.json")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tracker := New(tc.opts...)
			assert.NotNil(t, tracker)
			assert.Equal(t, 0, tracker.Count())
		})
	}
}

func TestHashFile(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeJava(t, tmpDir, "A.java", "class A {}")
	b := writeJava(t, tmpDir, "B.java", "class B {}")
	same := writeJava(t, tmpDir, "Copy.java", "class A {}")

	hashA, err := HashFile(a)
	require.NoError(t, err)
	hashB, err := HashFile(b)
	require.NoError(t, err)
	hashSame, err := HashFile(same)
	require.NoError(t, err)

	assert.Len(t, hashA, 64)
	assert.NotEqual(t, hashA, hashB)
	assert.Equal(t, hashA, hashSame)
	assert.Equal(t, HashBytes([]byte("class A {}")), hashA)

	_, err = HashFile(filepath.Join(tmpDir, "Missing.java"))
	assert.Error(t, err)
}

func TestTracker_MarkDirty(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main { void m() {} }")

	tracker := New()

	err := tracker.MarkDirty(testFile)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Count())
	assert.True(t, tracker.IsDirty(testFile))

	// Marking the same file again should not increase the count
	err = tracker.MarkDirty(testFile)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Count())
}

func TestTracker_MarkDirty_NonExistent(t *testing.T) {
	tracker := New()
	err := tracker.MarkDirty("/non/existent/Main.java")
	assert.Error(t, err)
}

func TestTracker_IsDirty(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main {}")

	tracker := New()

	// File not tracked yet
	assert.False(t, tracker.IsDirty(testFile))

	err := tracker.MarkDirty(testFile)
	require.NoError(t, err)
	assert.True(t, tracker.IsDirty(testFile))

	tracker.ClearDirty([]string{testFile})
	assert.False(t, tracker.IsDirty(testFile))
}

func TestTracker_DirtyFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := make([]string, 3)
	for i := 0; i < 3; i++ {
		files[i] = writeJava(t, tmpDir, "Class"+string(rune('A'+i))+".java", "class C {}")
	}

	tracker := New()

	// No dirty files initially
	assert.Empty(t, tracker.DirtyFiles())

	err := tracker.MarkDirty(files[0])
	require.NoError(t, err)
	err = tracker.MarkDirty(files[2])
	require.NoError(t, err)

	dirtyFiles := tracker.DirtyFiles()
	assert.Len(t, dirtyFiles, 2)
	assert.Contains(t, dirtyFiles, files[0])
	assert.Contains(t, dirtyFiles, files[2])
}

func TestTracker_ClearDirty(t *testing.T) {
	tmpDir := t.TempDir()

	files := make([]string, 3)
	for i := 0; i < 3; i++ {
		files[i] = writeJava(t, tmpDir, "Class"+string(rune('A'+i))+".java", "class C {}")
	}

	tracker := New()

	for _, f := range files {
		err := tracker.MarkDirty(f)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, tracker.Count())

	// Clear specific files
	tracker.ClearDirty(files[:2])
	assert.Equal(t, 1, tracker.Count())
	assert.True(t, tracker.IsDirty(files[2]))
	assert.False(t, tracker.IsDirty(files[0]))
	assert.False(t, tracker.IsDirty(files[1]))

	// Clear all remaining
	tracker.ClearDirty(nil)
	assert.Equal(t, 0, tracker.Count())
}

func TestTracker_CheckAndMark(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main {}")

	tracker := New()

	// First check - should mark dirty
	changed, err := tracker.CheckAndMark(testFile)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, tracker.IsDirty(testFile))

	// Second check - same content - should clear the flag
	changed, err = tracker.CheckAndMark(testFile)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, tracker.IsDirty(testFile))

	err = os.WriteFile(testFile, []byte("class Main { int x; }"), 0644)
	require.NoError(t, err)

	// Third check - content changed - should mark dirty again
	changed, err = tracker.CheckAndMark(testFile)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, tracker.IsDirty(testFile))
}

func TestTracker_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	files := make([]string, 3)
	for i := 0; i < 3; i++ {
		files[i] = writeJava(t, tmpDir, "Class"+string(rune('A'+i))+".java", "class C {}")
	}

	tracker := New(WithCacheDir(tmpDir))
	for _, f := range files[:2] {
		err := tracker.MarkDirty(f)
		require.NoError(t, err)
	}

	err := tracker.Save()
	require.NoError(t, err)

	tracker2 := New(WithCacheDir(tmpDir))
	err = tracker2.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, tracker2.Count())
	assert.True(t, tracker2.IsDirty(files[0]))
	assert.True(t, tracker2.IsDirty(files[1]))
	assert.False(t, tracker2.IsDirty(files[2]))
}

func TestTracker_LoadMissingFile(t *testing.T) {
	tracker := New(WithCacheDir(t.TempDir()))
	err := tracker.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, tracker.TotalCount())
}

func TestTracker_SaveToLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main {}")

	tracker := New()
	err := tracker.MarkDirty(testFile)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tracker.SaveTo(&buf)
	require.NoError(t, err)

	tracker2 := New()
	err = tracker2.LoadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, 1, tracker2.Count())
	assert.True(t, tracker2.IsDirty(testFile))
}

func TestTracker_Remove(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main {}")

	tracker := New()
	err := tracker.MarkDirty(testFile)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Count())

	tracker.Remove(testFile)
	assert.Equal(t, 0, tracker.Count())
	assert.False(t, tracker.IsDirty(testFile))
}

func TestTracker_Clear(t *testing.T) {
	tmpDir := t.TempDir()

	tracker := New()
	for i := 0; i < 3; i++ {
		f := writeJava(t, tmpDir, "Class"+string(rune('A'+i))+".java", "class C {}")
		err := tracker.MarkDirty(f)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, tracker.Count())

	tracker.Clear()
	assert.Equal(t, 0, tracker.Count())
}

func TestTracker_Hash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := writeJava(t, tmpDir, "Main.java", "class Main {}")

	tracker := New()

	// Not tracked yet
	hash, exists := tracker.Hash(testFile)
	assert.Empty(t, hash)
	assert.False(t, exists)

	err := tracker.MarkDirty(testFile)
	require.NoError(t, err)

	hash, exists = tracker.Hash(testFile)
	assert.True(t, exists)
	assert.Equal(t, HashBytes([]byte("class Main {}")), hash)
}

func TestTracker_TotalCount(t *testing.T) {
	tmpDir := t.TempDir()

	tracker := New()
	assert.Equal(t, 0, tracker.TotalCount())

	for i := 0; i < 3; i++ {
		f := writeJava(t, tmpDir, "Class"+string(rune('A'+i))+".java", "class C {}")
		err := tracker.MarkDirty(f)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, tracker.TotalCount())

	// Clear dirty but keep tracked
	tracker.ClearDirty(nil)
	assert.Equal(t, 0, tracker.Count())
	assert.Equal(t, 3, tracker.TotalCount())
}
