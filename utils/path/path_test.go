package path

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootPathContainsModule(t *testing.T) {
	ok, err := Exists(filepath.Join(RootPath(), "go.mod"))
	if err != nil || !ok {
		t.Fatalf("go.mod not found under %s", RootPath())
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("local.yaml", nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Resolve("/etc/app.yaml", "/root"); got != "/etc/app.yaml" {
		t.Errorf("abs = %q", got)
	}
	if got := Resolve("local.yaml", "/root"); !filepath.IsAbs(got) || filepath.Base(got) != "local.yaml" || filepath.Dir(got) == "/root" {
		t.Errorf("cwd = %q", got)
	}
	if got := Resolve("missing.yaml", "/srv", "conf"); got != "/srv/conf/missing.yaml" {
		t.Errorf("root = %q", got)
	}
}

func TestEnsureParent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "log.csv")
	if err := EnsureParent(file); err != nil {
		t.Fatal(err)
	}
	if ok, _ := Exists(filepath.Dir(file)); !ok {
		t.Fatal("parent not created")
	}
	if err := EnsureParent("log.csv"); err != nil {
		t.Fatal(err)
	}
}
