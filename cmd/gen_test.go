package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// mockGenRunner is a test double for GenRunner.
type mockGenRunner struct {
	result *GenResult
	err    error
	got    GenRequest
	called bool
}

func (m *mockGenRunner) Generate(ctx context.Context, req GenRequest) (*GenResult, error) {
	m.called = true
	m.got = req
	return m.result, m.err
}

// newTestGenCmd creates a gen command wired through root so global flags
// apply, capturing stdout into the returned buffer.
func newTestGenCmd(runner *mockGenRunner, args ...string) (*cobra.Command, *bytes.Buffer) {
	root := NewRootCmd()
	root.AddCommand(NewGenCmd(runner))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"gen"}, args...))
	return root, buf
}

func TestGenCmd_HumanOutput(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{IDs: []string{"abc", "def"}, Length: 3}}
	cmd, buf := newTestGenCmd(runner, "-n", "2", "-l", "3")

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := buf.String(), "abc\ndef\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if runner.got.Count != 2 || runner.got.Length != 3 {
		t.Errorf("request count/length = %d/%d, want 2/3", runner.got.Count, runner.got.Length)
	}
}

func TestGenCmd_JSONOutput(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{IDs: []string{"x"}, Length: 1, EntropyBits: 6}}
	cmd, buf := newTestGenCmd(runner, "--json")

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got GenResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got.IDs) != 1 || got.IDs[0] != "x" || got.EntropyBits != 6 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestGenCmd_GlobalJSONFlag(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{IDs: []string{"x"}, Length: 1}}
	root := NewRootCmd()
	root.AddCommand(NewGenCmd(runner))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--json", "gen"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("output = %q, want JSON object", buf.String())
	}
}

func TestGenCmd_AppendOutput(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{IDs: []string{"a", "b", "c"}, AppendedTo: "ids.txt"}}
	cmd, buf := newTestGenCmd(runner, "--append", "ids.txt", "--lock-timeout", "250ms")

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := buf.String(), "Appended 3 identifier(s) to ids.txt\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if runner.got.AppendPath != "ids.txt" {
		t.Errorf("AppendPath = %q, want %q", runner.got.AppendPath, "ids.txt")
	}
	if runner.got.LockTimeout != 250*time.Millisecond {
		t.Errorf("LockTimeout = %v, want 250ms", runner.got.LockTimeout)
	}
}

func TestGenCmd_Defaults(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{}}
	cmd, _ := newTestGenCmd(runner)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := GenRequest{Workers: 1, LockTimeout: DefaultLockTimeout}
	if runner.got != want {
		t.Errorf("request = %+v, want %+v", runner.got, want)
	}
}

func TestGenCmd_RejectsNonPositiveFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		flag string
	}{
		{name: "count zero", args: []string{"--count", "0"}, flag: "count"},
		{name: "length negative", args: []string{"--length=-1"}, flag: "length"},
		{name: "workers zero", args: []string{"-w", "0"}, flag: "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockGenRunner{result: &GenResult{}}
			cmd, _ := newTestGenCmd(runner, tt.args...)

			err := cmd.Execute()

			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("Execute() error = %v, want *UsageError", err)
			}
			if usage.Flag != tt.flag {
				t.Errorf("UsageError.Flag = %q, want %q", usage.Flag, tt.flag)
			}
			if runner.called {
				t.Error("runner should not be called for invalid flags")
			}
			if code := ExitCodeFromError(err); code != ExitConfig {
				t.Errorf("exit code = %d, want %d", code, ExitConfig)
			}
		})
	}
}

func TestGenCmd_OverridesOnlyChangedFlags(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{}}
	cmd, _ := newTestGenCmd(runner, "--preset", "hex", "--secure", "--uniform=false", "--pool", "32")

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	o := runner.got.Overrides
	if o.Alphabet != nil {
		t.Errorf("Alphabet override = %q, want nil", *o.Alphabet)
	}
	if o.Strict != nil {
		t.Errorf("Strict override = %v, want nil", *o.Strict)
	}
	if o.Preset == nil || *o.Preset != "hex" {
		t.Errorf("Preset override = %v, want hex", o.Preset)
	}
	if o.Secure == nil || !*o.Secure {
		t.Errorf("Secure override = %v, want true", o.Secure)
	}
	if o.Uniform == nil || *o.Uniform {
		t.Errorf("Uniform override = %v, want false", o.Uniform)
	}
	if o.Pool == nil || *o.Pool != 32 {
		t.Errorf("Pool override = %v, want 32", o.Pool)
	}
}

func TestGenCmd_RunnerError(t *testing.T) {
	wantErr := errors.New("source failed")
	runner := &mockGenRunner{err: wantErr}
	cmd, buf := newTestGenCmd(runner)

	if err := cmd.Execute(); !errors.Is(err, wantErr) {
		t.Fatalf("Execute() error = %v, want %v", err, wantErr)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty on error", buf.String())
	}
}

func TestGenCmd_RejectsArgs(t *testing.T) {
	runner := &mockGenRunner{result: &GenResult{}}
	cmd, _ := newTestGenCmd(runner, "extra")

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() should reject positional arguments")
	}
}
