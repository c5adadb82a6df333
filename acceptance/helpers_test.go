package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runDictid executes the dictid binary and returns stdout, stderr, and exit code.
func runDictid(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(dictidBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run dictid: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runDictidSuccess runs dictid expecting exit code 0 and returns stdout.
func runDictidSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runDictid(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// genJSON runs dictid gen --json and parses the result.
func genJSON(t *testing.T, dir string, extraArgs ...string) map[string]interface{} {
	t.Helper()
	args := append([]string{"gen", "--json"}, extraArgs...)
	stdout := runDictidSuccess(t, dir, args...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse gen JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// getIDs extracts the ids array from a gen --json result.
func getIDs(t *testing.T, result map[string]interface{}) []string {
	t.Helper()
	raw, ok := result["ids"].([]interface{})
	if !ok {
		t.Fatal("missing ids in result")
	}
	ids := make([]string, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			t.Fatalf("ids[%d] = %v, want string", i, v)
		}
		ids[i] = s
	}
	return ids
}

// lines splits output into non-empty lines.
func lines(s string) []string {
	return strings.Fields(s)
}

// assertAlphabet fails if any id has the wrong rune length or a symbol
// outside symbols.
func assertAlphabet(t *testing.T, ids []string, length int, symbols string) {
	t.Helper()
	for _, id := range ids {
		if n := len([]rune(id)); n != length {
			t.Errorf("id %q has %d symbols, want %d", id, n, length)
		}
		for _, r := range id {
			if !strings.ContainsRune(symbols, r) {
				t.Errorf("id %q contains %q outside %q", id, r, symbols)
			}
		}
	}
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}
