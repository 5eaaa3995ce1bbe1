package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags returns every flag to its default; cobra keeps flag values
// between Execute calls in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with a config file in a temporary directory.
func execute(t *testing.T, configTOML string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hsl.toml")
	if err := os.WriteFile(cfgPath, []byte(configTOML), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--color", "off"}, args...))
	err = rootCmd.ExecuteContext(context.Background())
	teardown()
	return out.String(), errOut.String(), err
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	ok := writeScript(t, dir, "ok.hsl", "using math;\nprintln(math.max(2, 7));")
	bad := writeScript(t, dir, "bad.hsl", "var a = 1;\nprint(a / 0);")

	tests := []struct {
		name       string
		args       []string
		wantOut    string
		wantErr    string
		wantFailed bool
	}{
		{name: "file", args: []string{"run", ok}, wantOut: "7\n"},
		{name: "eval", args: []string{"run", "-e", "print(1 + 2);"}, wantOut: "3"},
		{name: "print result", args: []string{"run", "--print-result", "-e", `"a" + "b";`}, wantOut: "ab\n"},
		{name: "runtime error", args: []string{"run", bad}, wantErr: "ERROR RUN4003: Division by zero.", wantFailed: true},
		{name: "short format", args: []string{"run", "--format", "short", "-e", "var = 1;"}, wantErr: "error SYN2003 <eval>:1:5", wantFailed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, "", tt.args...)
			if tt.wantFailed != errors.Is(err, errReported) {
				t.Fatalf("err = %v, stderr:\n%s", err, stderr)
			}
			if !tt.wantFailed && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stdout != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantOut)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr does not contain %q:\n%s", tt.wantErr, stderr)
			}
		})
	}
}

func TestRunLimitsFromConfig(t *testing.T) {
	_, stderr, err := execute(t, "[engine]\nmax_steps = 50\n", "run", "-e", "while (true) {}")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Step limit of 50 exceeded.") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestModulesFlag(t *testing.T) {
	_, stderr, err := execute(t, "", "--modules", "math", "run", "-e", "using yaml;")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "yaml") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.hsl", "var a = 1;")
	writeScript(t, dir, "nested/b.hsl", "final var b = 1;\nb = 2;")

	_, stderr, err := execute(t, "", "check", "--ui", "off", "--format", "short", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "error RES3003") || !strings.Contains(stderr, "b.hsl:2:1") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if strings.Contains(stderr, "a.hsl") {
		t.Errorf("clean file reported:\n%s", stderr)
	}

	// повторный прогон даёт тот же результат
	_, again, _ := execute(t, "", "check", "--ui", "off", "--format", "short", dir)
	if !strings.Contains(again, "error RES3003") {
		t.Errorf("second run:\n%s", again)
	}
}

func TestCheckCleanFile(t *testing.T) {
	p := writeScript(t, t.TempDir(), "ok.hsl", "function f(x) { return x; }\nf(1);")
	if _, stderr, err := execute(t, "", "check", p); err != nil {
		t.Fatalf("err = %v\n%s", err, stderr)
	}
}

func TestParseAndTokenize(t *testing.T) {
	p := writeScript(t, t.TempDir(), "p.hsl", "var x = 1;")

	stdout, _, err := execute(t, "", "parse", "--format", "sexpr", p)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "(program (var x (literal 1)))\n" {
		t.Errorf("parse output %q", stdout)
	}

	stdout, _, err = execute(t, "", "tokenize", p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"x" at 1:5-1:6`) {
		t.Errorf("tokenize output:\n%s", stdout)
	}
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, "[engine]\nmax_steps = 7\n", "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# loaded from", "[engine]", "max_steps = 7"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config output misses %q:\n%s", want, stdout)
		}
	}

	dir := t.TempDir()
	if _, _, err := execute(t, "", "config", "init", dir); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "", "config", "init", dir); err == nil {
		t.Error("second init must refuse to overwrite")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"modules"`) || !strings.Contains(stdout, `"math"`) {
		t.Errorf("version output:\n%s", stdout)
	}
}

func TestBadFlags(t *testing.T) {
	if _, _, err := execute(t, "", "--color", "sometimes", "version"); err == nil {
		t.Error("invalid --color accepted")
	}
	if _, _, err := execute(t, "", "--trace-level", "loud", "version"); err == nil {
		t.Error("invalid --trace-level accepted")
	}
	if _, _, err := execute(t, "[engine]\nbogus = 1\n", "version"); err == nil {
		t.Error("unknown config key accepted")
	}
}
