// Package scanner walks a project tree and collects the Java sources
// worth analyzing. It honors .gdfignore files with gitignore-style
// patterns plus a built-in directory skip list.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes one discovered Java source file.
type FileInfo struct {
	Path     string // Relative path from root, slash separated
	FullPath string // Absolute path
	Size     int64  // File size in bytes
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden     bool     // Skip hidden files and directories (starting with .)
	FollowSymlinks bool     // Follow file symlinks (within root only)
	Excludes       []string // Directory names skipped outright
	IgnoreFileName string   // Name of the ignore file (default: .gdfignore)
}

// DefaultOptions returns scanner options with sensible defaults for
// Java projects.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		FollowSymlinks: false,
		IgnoreFileName: ".gdfignore",
		Excludes: []string{
			".git",
			".hg",
			".svn",
			".gradle",
			".idea",
			".vscode",
			"node_modules",
			"vendor",
			"target",
			"build",
			"out",
			"bin",
			"generated",
		},
	}
}

// Scanner provides file tree scanning capabilities.
type Scanner struct {
	opts Options
	root string
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan recursively scans the directory at root and returns the Java
// sources found, respecting ignore patterns and excluded directories.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	s.root = absRoot

	ignorePatterns, err := s.loadIgnorePatterns(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}

	var files []FileInfo

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}
		relPathSlash := filepath.ToSlash(relPath)

		if s.opts.SkipHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if s.isExcluded(info.Name()) {
				return filepath.SkipDir
			}
			// Pick up nested ignore files along the way
			nested, err := s.loadIgnorePatterns(path)
			if err == nil && len(nested) > 0 {
				ignorePatterns = append(ignorePatterns, nested...)
			}
			return nil
		}

		if s.matchesIgnorePatterns(relPathSlash, ignorePatterns) {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, ok := s.resolveSymlink(path, absRoot)
			if !ok {
				return nil
			}
			info = target
		}

		if !isJavaSource(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:     relPathSlash,
			FullPath: path,
			Size:     info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

// isJavaSource reports whether the path names a Java source file.
func isJavaSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".java")
}

// isExcluded checks if the directory name is on the skip list.
func (s *Scanner) isExcluded(name string) bool {
	for _, exclude := range s.opts.Excludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// resolveSymlink follows a file symlink if allowed and the target stays
// within root. Directory symlinks are never followed.
func (s *Scanner) resolveSymlink(path, absRoot string) (os.FileInfo, bool) {
	if !s.opts.FollowSymlinks {
		return nil, false
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false // broken symlink
	}
	realAbs, err := filepath.Abs(realPath)
	if err != nil {
		return nil, false
	}
	if !strings.HasPrefix(realAbs, absRoot+string(filepath.Separator)) && realAbs != absRoot {
		return nil, false
	}
	target, err := os.Stat(realPath)
	if err != nil || target.IsDir() {
		return nil, false
	}
	return target, true
}

// loadIgnorePatterns loads patterns from the ignore file in dir, if any.
func (s *Scanner) loadIgnorePatterns(dir string) ([]IgnorePattern, error) {
	ignorePath := filepath.Join(dir, s.opts.IgnoreFileName)
	file, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var patterns []IgnorePattern
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParseIgnorePattern(line))
	}

	return patterns, sc.Err()
}

// matchesIgnorePatterns checks the path against the patterns in order.
// Later negation patterns can override earlier matches.
func (s *Scanner) matchesIgnorePatterns(relPath string, patterns []IgnorePattern) bool {
	ignored := false
	for _, pattern := range patterns {
		if pattern.Match(relPath) {
			ignored = !pattern.IsNegation()
		}
	}
	return ignored
}

// Scan is a convenience function that scans a directory with default
// options.
func Scan(root string) ([]FileInfo, error) {
	return New(DefaultOptions()).Scan(root)
}

// ScanWithOptions scans a directory with custom options.
func ScanWithOptions(root string, opts Options) ([]FileInfo, error) {
	return New(opts).Scan(root)
}
