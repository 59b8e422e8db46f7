package integrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
sources:
  - name: funnel
    enabled: true
    secret: s3cret
  - name: crm
    enabled: false
    header: X-CRM-Token
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "integrations.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	r, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sources, got %d", r.Len())
	}

	if !r.Enabled(SourceFunnel) {
		t.Error("funnel should be enabled")
	}
	if r.Enabled(SourceCRM) {
		t.Error("crm should be disabled")
	}

	header, secret := r.Secret(SourceFunnel)
	if header != DefaultSecretHeader || secret != "s3cret" {
		t.Errorf("unexpected funnel secret: %q %q", header, secret)
	}
	header, secret = r.Secret(SourceCRM)
	if header != "X-CRM-Token" || secret != "" {
		t.Errorf("unexpected crm secret: %q %q", header, secret)
	}
}

func TestMissingFileAcceptsEverything(t *testing.T) {
	r, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if !r.Enabled(SourceFunnel) || !r.Enabled(SourceCRM) {
		t.Error("unconfigured sources should be enabled")
	}
	if _, secret := r.Secret(SourceCRM); secret != "" {
		t.Errorf("expected no secret, got %q", secret)
	}
}

func TestSecretFromEnv(t *testing.T) {
	t.Setenv("TEST_CRM_SECRET", "from-env")
	path := writeConfig(t, t.TempDir(), `
sources:
  - name: crm
    secret_env: TEST_CRM_SECRET
`)
	r, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if _, secret := r.Secret(SourceCRM); secret != "from-env" {
		t.Errorf("expected from-env, got %q", secret)
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)
	r, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	writeConfig(t, dir, "sources: [\n")
	if err := r.Reload(path); err == nil {
		t.Fatal("expected parse error")
	}
	if r.Len() != 2 || r.Enabled(SourceCRM) {
		t.Error("registry changed after failed reload")
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)
	r, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := Watch(ctx, r, path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeConfig(t, dir, `
sources:
  - name: crm
    enabled: true
`)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if r.Len() == 1 && r.Enabled(SourceCRM) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("registry not reloaded: %v", r.Names())
}
