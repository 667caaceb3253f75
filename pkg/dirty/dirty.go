// Package dirty tracks which files have changed based on content
// hashing, so cached analysis results can be reused until the source
// they came from is edited.
package dirty

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheDir is the default directory for storing hash state.
const DefaultCacheDir = ".gdf/cache"

// DefaultCacheFile is the default filename for hash state.
const DefaultCacheFile = "hashes.json"

// fileState records the last known hash of a single file.
type fileState struct {
	Path     string `json:"path"`
	Hash     string `json:"hash"`
	IsDirty  bool   `json:"is_dirty"`
	LastSeen int64  `json:"last_seen"` // Unix timestamp
}

// trackerData is the on-disk JSON structure.
type trackerData struct {
	Version int         `json:"version"`
	Files   []fileState `json:"files"`
}

// Tracker tracks dirty files based on content hashing.
type Tracker struct {
	mu        sync.RWMutex
	files     map[string]fileState
	cacheDir  string
	cacheFile string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCacheDir sets the cache directory.
func WithCacheDir(dir string) Option {
	return func(t *Tracker) {
		t.cacheDir = dir
	}
}

// WithCacheFile sets the cache filename.
func WithCacheFile(file string) Option {
	return func(t *Tracker) {
		t.cacheFile = file
	}
}

// New creates a new Tracker with optional configuration.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		files:     make(map[string]fileState),
		cacheDir:  DefaultCacheDir,
		cacheFile: DefaultCacheFile,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewFromCache creates a Tracker and loads its persisted state.
func NewFromCache(opts ...Option) (*Tracker, error) {
	t := New(opts...)
	if err := t.Load(); err != nil {
		return nil, err
	}
	return t, nil
}

// HashFile computes the SHA-256 hash of a file's contents, hex encoded.
// The same hash keys cached analysis reports.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hash of in-memory content, hex encoded.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CheckAndMark hashes the file and compares against the tracked state.
// Returns true if the content changed since last seen (the file is then
// marked dirty); an unchanged file has its dirty flag cleared.
func (t *Tracker) CheckAndMark(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to get absolute path: %w", err)
	}

	hash, err := HashFile(absPath)
	if err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, exists := t.files[absPath]
	if exists && existing.Hash == hash {
		existing.IsDirty = false
		t.files[absPath] = existing
		return false, nil
	}

	t.files[absPath] = fileState{
		Path:     absPath,
		Hash:     hash,
		IsDirty:  true,
		LastSeen: time.Now().Unix(),
	}
	return true, nil
}

// MarkDirty marks a file as dirty by computing its hash. An unchanged,
// already clean file keeps its state.
func (t *Tracker) MarkDirty(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	hash, err := HashFile(absPath)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, exists := t.files[absPath]
	if exists && existing.Hash == hash && !existing.IsDirty {
		return nil
	}

	t.files[absPath] = fileState{
		Path:     absPath,
		Hash:     hash,
		IsDirty:  true,
		LastSeen: time.Now().Unix(),
	}

	return nil
}

// IsDirty checks if a file is currently marked as dirty.
func (t *Tracker) IsDirty(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	state, exists := t.files[absPath]
	return exists && state.IsDirty
}

// DirtyFiles returns all files currently marked as dirty.
func (t *Tracker) DirtyFiles() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]string, 0, len(t.files))
	for _, state := range t.files {
		if state.IsDirty {
			result = append(result, state.Path)
		}
	}
	return result
}

// ClearDirty clears the dirty flag for the given files. With no files,
// all flags are cleared.
func (t *Tracker) ClearDirty(files []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(files) == 0 {
		for path := range t.files {
			state := t.files[path]
			state.IsDirty = false
			t.files[path] = state
		}
		return
	}

	for _, path := range files {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if state, exists := t.files[absPath]; exists {
			state.IsDirty = false
			t.files[absPath] = state
		}
	}
}

// Count returns the number of dirty files.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, state := range t.files {
		if state.IsDirty {
			count++
		}
	}
	return count
}

// TotalCount returns the total number of tracked files.
func (t *Tracker) TotalCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.files)
}

// Hash returns the last recorded hash for a tracked file.
func (t *Tracker) Hash(path string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	state, exists := t.files[absPath]
	return state.Hash, exists
}

// Remove removes a file from tracking.
func (t *Tracker) Remove(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}
	delete(t.files, absPath)
}

// Clear removes all tracked files.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files = make(map[string]fileState)
}

// statePath returns the full path to the state file.
func (t *Tracker) statePath() string {
	return filepath.Join(t.cacheDir, t.cacheFile)
}

// Save persists the hash state to the state file.
func (t *Tracker) Save() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := os.MkdirAll(t.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(t.statePath())
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer f.Close()

	return t.saveTo(f)
}

// Load restores the hash state from the state file. A missing file is
// not an error.
func (t *Tracker) Load() error {
	f, err := os.Open(t.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()

	return t.LoadFrom(f)
}

// SaveTo writes the hash state to the given writer.
func (t *Tracker) SaveTo(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.saveTo(w)
}

// saveTo writes the state while the caller holds the lock.
func (t *Tracker) saveTo(w io.Writer) error {
	files := make([]fileState, 0, len(t.files))
	for _, state := range t.files {
		files = append(files, state)
	}

	data := trackerData{
		Version: 1,
		Files:   files,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode hash state: %w", err)
	}
	return nil
}

// LoadFrom reads the hash state from the given reader.
func (t *Tracker) LoadFrom(r io.Reader) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var data trackerData
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode hash state: %w", err)
	}

	t.files = make(map[string]fileState, len(data.Files))
	for _, state := range data.Files {
		t.files[state.Path] = state
	}

	return nil
}
