package e2e

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var (
	filetreeBin string
	testEnv     *E2ETestEnvironment
)

func TestMain(m *testing.M) {
	os.Exit(runMain(m))
}

func runMain(m *testing.M) int {
	// Build the CLI once for all tests
	tmpBinDir, err := os.MkdirTemp("", "filetree-bin")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpBinDir) // nolint:errcheck

	filetreeBin = filepath.Join(tmpBinDir, "filetree")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", filetreeBin, "./cmd")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	testEnv, err = NewE2ETestEnvironment(filetreeBin)
	if err != nil {
		panic(err)
	}
	defer testEnv.Close()

	return m.Run()
}

func TestE2EListManifest(t *testing.T) {
	testEnv.RegisterFiles([]*TestFileSpec{
		NewTestFile("/list/readme").WithTextContent("# readme").Build(),
	})
	manifest := testEnv.WriteManifest(t, "list.json", `[
		{"type": "dir", "path": "/proj/src/pkg"},
		{"type": "file", "path": "/proj/README.md", "sources": [{"type": "http", "url": "%s/list/readme"}]},
		{"type": "file", "path": "/proj/src/main.go", "sources": [{"type": "inline", "text": "package main"}]},
		{"type": "dir", "path": "/proj/docs"}
	]`)

	res := testEnv.Run(t, "-n", manifest, "list")
	if res.ExitCode != 0 {
		t.Fatalf("list failed (%d): %s", res.ExitCode, res.Stderr)
	}

	expected := "/proj\n" +
		"/proj/README.md\n" +
		"/proj/docs\n" +
		"/proj/src\n" +
		"/proj/src/main.go\n" +
		"/proj/src/pkg\n"
	if res.Stdout != expected {
		t.Fatalf("listing mismatch:\nexpected: %q\ngot:      %q", expected, res.Stdout)
	}
}

func TestE2ECatHTTPFile(t *testing.T) {
	testEnv.RegisterFiles([]*TestFileSpec{
		NewTestFile("/cat/binary").WithBinaryContent(512).Build(),
	})
	manifest := testEnv.WriteManifest(t, "cat.yaml", `
- type: file
  path: /data/blob.bin
  sources:
    - type: http
      url: %s/cat/binary
`)

	res := testEnv.Run(t, "-n", manifest, "cat", "/data/blob.bin")
	if res.ExitCode != 0 {
		t.Fatalf("cat failed (%d): %s", res.ExitCode, res.Stderr)
	}
	if len(res.Stdout) != 512 {
		t.Fatalf("size mismatch: expected 512, got %d", len(res.Stdout))
	}
	for i, b := range []byte(res.Stdout) {
		if b != byte(i%256) {
			t.Fatalf("content mismatch at offset %d: expected %d, got %d", i, byte(i%256), b)
		}
	}
}

func TestE2ESourceFailover(t *testing.T) {
	testEnv.RegisterFiles([]*TestFileSpec{
		NewTestFile("/failover/missing").WithError(http.StatusNotFound).Build(),
	})
	manifest := testEnv.WriteManifest(t, "failover.json", `[{
		"type": "file",
		"path": "/r/f.txt",
		"sources": [
			{"type": "inline", "text": "fallback", "priority": 9},
			{"type": "http", "url": "%s/failover/missing", "priority": 1}
		]
	}]`)

	res := testEnv.Run(t, "-n", manifest, "cat", "/r/f.txt")
	if res.ExitCode != 0 {
		t.Fatalf("cat failed (%d): %s", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "fallback" {
		t.Fatalf("expected fallback content, got %q", res.Stdout)
	}
}

func TestE2EStatAndCheck(t *testing.T) {
	manifest := testEnv.WriteManifest(t, "stat.json", `[
		{"type": "file", "path": "/r/a/hello.txt", "sources": [{"type": "inline", "text": "hello"}]}
	]`)

	res := testEnv.Run(t, "-n", manifest, "stat", "/r/a/hello.txt")
	if res.ExitCode != 0 {
		t.Fatalf("stat failed (%d): %s", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "/r/a/hello.txt\tfile\t5 bytes\n" {
		t.Fatalf("unexpected stat output %q", res.Stdout)
	}

	res = testEnv.Run(t, "-n", manifest, "check")
	if res.ExitCode != 0 || res.Stdout != "ok: 3 nodes\n" {
		t.Fatalf("check failed (%d): %q %s", res.ExitCode, res.Stdout, res.Stderr)
	}

	res = testEnv.Run(t, "-n", manifest, "stat", "/r/missing")
	if res.ExitCode != 1 || !strings.Contains(res.Stderr, "no such path") {
		t.Fatalf("expected no such path failure, got (%d): %s", res.ExitCode, res.Stderr)
	}
}

func TestE2EConfigLimitsNodes(t *testing.T) {
	cfg := testEnv.WriteManifest(t, "config.yaml", "max_nodes: 2\naudit: log\n")
	manifest := testEnv.WriteManifest(t, "limited.json", `[
		{"type": "dir", "path": "/r/a"},
		{"type": "dir", "path": "/r/b"}
	]`)

	res := testEnv.Run(t, "-c", cfg, "-n", manifest, "--no-color", "list")
	if res.ExitCode != 0 {
		t.Fatalf("list failed (%d): %s", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "/r\n/r/a\n" {
		t.Fatalf("expected the second directory to be rejected, got %q", res.Stdout)
	}
	if !strings.Contains(res.Stderr, "memory error") {
		t.Fatalf("expected a memory error warning, got %s", res.Stderr)
	}
}

func TestE2EUsageErrors(t *testing.T) {
	res := testEnv.Run(t, "frobnicate")
	if res.ExitCode != 2 || !strings.Contains(res.Stderr, "unknown command") {
		t.Fatalf("expected usage error, got (%d): %s", res.ExitCode, res.Stderr)
	}

	res = testEnv.Run(t, "cat")
	if res.ExitCode != 2 {
		t.Fatalf("expected usage error for missing PATH, got (%d): %s", res.ExitCode, res.Stderr)
	}
}

// E2ETestEnvironment manages shared resources for all e2e tests
type E2ETestEnvironment struct {
	MockServer  *httptest.Server
	FiletreeBin string
	BaseDir     string
	mux         *http.ServeMux
}

// TestFileSpec defines a served file's content and behavior
type TestFileSpec struct {
	path        string
	content     []byte
	contentType string
	errorCode   int // 0 = success, 404, 500, etc.
}

// TestFileBuilder provides a fluent API for creating test files
type TestFileBuilder struct {
	spec TestFileSpec
}

// RunResult is the outcome of one CLI invocation
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewTestFile creates a new test file builder with the given path
func NewTestFile(path string) *TestFileBuilder {
	return &TestFileBuilder{
		spec: TestFileSpec{
			path:        path,
			contentType: "text/plain",
		},
	}
}

// WithTextContent sets text content and appropriate content type
func (b *TestFileBuilder) WithTextContent(content string) *TestFileBuilder {
	b.spec.content = []byte(content)
	b.spec.contentType = "text/plain"
	return b
}

// WithBinaryContent generates binary content of the specified size
func (b *TestFileBuilder) WithBinaryContent(size int) *TestFileBuilder {
	b.spec.content = make([]byte, size)
	for i := range b.spec.content {
		b.spec.content[i] = byte(i % 256)
	}
	b.spec.contentType = "application/octet-stream"
	return b
}

// WithError makes the file return an HTTP error status
func (b *TestFileBuilder) WithError(statusCode int) *TestFileBuilder {
	b.spec.errorCode = statusCode
	return b
}

// Build creates the final TestFileSpec
func (b *TestFileBuilder) Build() *TestFileSpec {
	return &b.spec
}

// NewE2ETestEnvironment creates a shared test environment with mock HTTP server
func NewE2ETestEnvironment(bin string) (*E2ETestEnvironment, error) {
	baseDir, err := os.MkdirTemp("", "filetree-e2e-tests")
	if err != nil {
		return nil, err
	}

	env := &E2ETestEnvironment{
		FiletreeBin: bin,
		BaseDir:     baseDir,
		mux:         http.NewServeMux(),
	}
	env.MockServer = httptest.NewServer(env.mux)
	return env, nil
}

// Close cleans up the test environment
func (env *E2ETestEnvironment) Close() {
	if env.MockServer != nil {
		env.MockServer.Close()
	}
	if env.BaseDir != "" {
		_ = os.RemoveAll(env.BaseDir) // Best effort cleanup
	}
}

// RegisterFiles adds test files to the mock server. Paths must be unique
// across tests.
func (env *E2ETestEnvironment) RegisterFiles(files []*TestFileSpec) {
	for _, file := range files {
		env.mux.HandleFunc(file.path, func(w http.ResponseWriter, r *http.Request) {
			if file.errorCode != 0 {
				http.Error(w, fmt.Sprintf("Mock error %d", file.errorCode), file.errorCode)
				return
			}
			w.Header().Set("Content-Type", file.contentType)
			_, _ = w.Write(file.content)
		})
	}
}

// WriteManifest writes body to a file named name, substituting the mock
// server URL for every %s.
func (env *E2ETestEnvironment) WriteManifest(t *testing.T, name, body string) string {
	t.Helper()
	if strings.Contains(body, "%s") {
		body = strings.ReplaceAll(body, "%s", env.MockServer.URL)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// Run executes the CLI with args and captures its output.
func (env *E2ETestEnvironment) Run(t *testing.T, args ...string) RunResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(env.FiletreeBin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := RunResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("failed to run filetree: %v", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}
