package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func scanPaths(t *testing.T, root string, opts Options) map[string]bool {
	t.Helper()
	results, err := New(opts).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	found := make(map[string]bool, len(results))
	for _, f := range results {
		found[f.Path] = true
	}
	return found
}

func TestScannerCollectsOnlyJava(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Main.java":           "class Main {}",
		"src/App.java":        "class App {}",
		"src/util/Util.JAVA":  "class Util {}",
		"README.md":           "# readme",
		"pom.xml":             "<project/>",
		"scripts/build.sh":    "#!/bin/sh",
		".hidden/Secret.java": "class Secret {}",
		"target/Gen.java":     "class Gen {}",
		"build/Out.java":      "class Out {}",
		".git/config":         "[core]",
	})

	found := scanPaths(t, tmpDir, DefaultOptions())

	for _, want := range []string{"Main.java", "src/App.java", "src/util/Util.JAVA"} {
		if !found[want] {
			t.Errorf("Expected to find %s, but it wasn't found", want)
		}
	}

	for _, skip := range []string{
		"README.md", "pom.xml", "scripts/build.sh",
		".hidden/Secret.java", "target/Gen.java", "build/Out.java", ".git/config",
	} {
		if found[skip] {
			t.Errorf("Expected %s to be skipped, but it was found", skip)
		}
	}
}

func TestScannerExtraExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Main.java":          "class Main {}",
		"gen/Stub.java":      "class Stub {}",
		"src/Real.java":      "class Real {}",
		"legacy/Old.java":    "class Old {}",
		"legacy/sub/Em.java": "class Em {}",
	})

	opts := DefaultOptions()
	opts.Excludes = append(opts.Excludes, "gen", "legacy")
	found := scanPaths(t, tmpDir, opts)

	if !found["Main.java"] || !found["src/Real.java"] {
		t.Errorf("regular sources missing: %v", found)
	}
	for _, skip := range []string{"gen/Stub.java", "legacy/Old.java", "legacy/sub/Em.java"} {
		if found[skip] {
			t.Errorf("Expected %s to be excluded, but it was found", skip)
		}
	}
}

func TestScannerWithIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".gdfignore": "# generated code\n*Test.java\nfixtures/\nScratch.java\n!KeepTest.java\n",
		"App.java":            "class App {}",
		"AppTest.java":        "class AppTest {}",
		"deep/OtherTest.java": "class OtherTest {}",
		"KeepTest.java":       "class KeepTest {}",
		"fixtures/Fix.java":   "class Fix {}",
		"Scratch.java":        "class Scratch {}",
		"sub/Scratch.java":    "class Scratch {}",
	})

	// The ignore file is read directly, so SkipHidden does not keep
	// its patterns from loading.
	found := scanPaths(t, tmpDir, DefaultOptions())

	for _, want := range []string{"App.java", "KeepTest.java"} {
		if !found[want] {
			t.Errorf("Expected to find %s", want)
		}
	}
	for _, ignored := range []string{
		"AppTest.java", "deep/OtherTest.java", "fixtures/Fix.java",
		"Scratch.java", "sub/Scratch.java",
	} {
		if found[ignored] {
			t.Errorf("Expected %s to be ignored", ignored)
		}
	}
}

func TestScannerNestedIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"sub/.gdfignore": "Local.java\n",
		"sub/Local.java": "class Local {}",
		"sub/Kept.java":  "class Kept {}",
		"Top.java":       "class Top {}",
	})

	found := scanPaths(t, tmpDir, DefaultOptions())

	if !found["Top.java"] || !found["sub/Kept.java"] {
		t.Errorf("regular sources missing: %v", found)
	}
	if found["sub/Local.java"] {
		t.Error("Expected sub/Local.java to be ignored by the nested ignore file")
	}
}

func TestScannerSkipHidden(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Visible.java":      "class Visible {}",
		".hidden/Java.java": "class Java {}",
		".Dotfile.java":     "class Dotfile {}",
	})

	found := scanPaths(t, tmpDir, DefaultOptions())
	if found[".hidden/Java.java"] || found[".Dotfile.java"] {
		t.Error("Should skip hidden files when SkipHidden=true")
	}
	if !found["Visible.java"] {
		t.Error("Visible.java missing")
	}

	opts := DefaultOptions()
	opts.SkipHidden = false
	found = scanPaths(t, tmpDir, opts)
	if !found[".Dotfile.java"] {
		t.Error("Should find dotfile sources when SkipHidden=false")
	}
}

func TestIgnorePattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		// Simple patterns
		{"*.java", "File.java", true},
		{"*.java", "dir/File.java", true},
		{"*.java", "File.txt", false},
		{"build/", "build/File.java", true},
		{"build/", "other/build/File.java", true},
		{"build/", "builder.java", false},

		// Rooted patterns
		{"/build/", "build/File.java", true},
		{"/build/", "src/build/File.java", false},
		{"/Main.java", "Main.java", true},
		{"/Main.java", "src/Main.java", false},

		// Directory patterns cover the whole subtree
		{"generated/", "generated/a/b/File.java", true},

		// Glob patterns
		{"*Test.java", "AppTest.java", true},
		{"*Test.java", "deep/AppTest.java", true},
		{"src/*.java", "src/App.java", true},
		{"src/*.java", "src/deep/App.java", false},

		// Double asterisk
		{"**/test/**", "test/File.java", true},
		{"**/test/**", "src/test/File.java", true},
		{"**/test/**", "src/deep/test/File.java", true},
		{"**/test/**", "testing/File.java", false},

		// Question mark and character class
		{"File?.java", "File1.java", true},
		{"File?.java", "File12.java", false},
		{"File[12].java", "File1.java", true},
		{"File[12].java", "File3.java", false},

		// Negation patterns still match; the caller flips the result
		{"!*.java", "File.java", true},
	}

	for _, tt := range tests {
		pattern := ParseIgnorePattern(tt.pattern)
		result := pattern.Match(tt.path)
		if result != tt.match {
			t.Errorf("Pattern %q matching %q: got %v, want %v", tt.pattern, tt.path, result, tt.match)
		}
	}
}
