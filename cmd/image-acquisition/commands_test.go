package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/image-acquisition/internal/config"
	"github.com/menta2k/image-acquisition/pkg/registry"
	"github.com/menta2k/image-acquisition/pkg/types"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "acq.yaml")

	out, err := runCmd(t, "--data-dir", "/srv/faces", "--bucket", "faces", "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/faces" || cfg.Bucket != "faces" {
		t.Errorf("Expected flags in the written file, got %+v", cfg)
	}

	if _, err := runCmd(t, "config", "init", path); err == nil {
		t.Error("Expected an existing file to be kept without --force")
	}
	if _, err := runCmd(t, "config", "init", "--force", path); err != nil {
		t.Errorf("Expected --force to overwrite: %v", err)
	}
}

func TestExportVerify(t *testing.T) {
	dataDir := t.TempDir()
	reg := registry.New(dataDir, "b")
	if err := reg.Load(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Ada", "Bob", "Ada"} {
		s := reg.Reserve(name)
		rec := types.IndexRecord{Path: s.ImagePath(s.MaxSeq, "png"), Name: name, URL: "https://x/" + name}
		if err := reg.Commit(s, rec); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCmd(t, "--data-dir", dataDir, "--bucket", "b", "export", "--verify")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote 3 rows") || !strings.Contains(out, "verified 3 rows") {
		t.Errorf("Unexpected output %q", out)
	}
}
