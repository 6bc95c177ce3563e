package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q, want %q", out, version)
	}
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"/dashboard", "views.SmartParking",
		"/analytics", "views.Analytics",
		"/gate", "views.Gate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRoutesCommandHashConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parkdash.yaml")
	data := "server:\n  history: hash\n  base: /parking\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "routes", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "/parking#/gate") {
		t.Errorf("output lacks hash URL:\n%s", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "routes", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if code := perrors.CodeOf(err); code != perrors.CodeConfigNotFound {
		t.Errorf("code = %q, want %s (err %v)", code, perrors.CodeConfigNotFound, err)
	}
}
