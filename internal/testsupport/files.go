package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file of the requested size filled with a repeating
// pattern. Parent directories are created as needed.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + (i % 26))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteImage drops a tiny PNG-tagged file at path. The bytes carry a real
// PNG signature so code that sniffs magic numbers accepts it, but the body
// is filler; tests that need decodable pixels should stub the prober.
func WriteImage(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("filmstrip-test-image")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write image %s: %v", path, err)
	}
}
