package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		t.Fatal(err)
	}
	// Chmod is not subject to the umask.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("MAIRCHEN_SECRET_OPENAI_API_KEY", "sk-env")
	p := NewEnvProvider("MAIRCHEN_SECRET_")

	if got := p.EnvVar("openai-api-key"); got != "MAIRCHEN_SECRET_OPENAI_API_KEY" {
		t.Errorf("EnvVar() = %q", got)
	}

	value, err := p.GetSecret(context.Background(), "openai-api-key")
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if value != "sk-env" {
		t.Errorf("GetSecret() = %q, want sk-env", value)
	}

	if _, err := p.GetSecret(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing secret error = %v, want ErrNotFound", err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "openai-api-key", "sk-file\n", 0o400)
	writeSecret(t, dir, "world-readable", "ok", 0o444)
	writeSecret(t, dir, "writable", "bad", 0o666)
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o700); err != nil {
		t.Fatal(err)
	}

	p, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	tests := []struct {
		name     string
		secret   string
		want     string
		notFound bool
		wantErr  bool
	}{
		{name: "trims whitespace", secret: "openai-api-key", want: "sk-file"},
		{name: "read-only for all", secret: "world-readable", want: "ok"},
		{name: "missing", secret: "nope", notFound: true, wantErr: true},
		{name: "writable by others", secret: "writable", wantErr: true},
		{name: "directory", secret: "subdir", wantErr: true},
		{name: "traversal", secret: "../etc/passwd", wantErr: true},
		{name: "empty name", secret: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetSecret(context.Background(), tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetSecret(%q) error = %v, wantErr %v", tt.secret, err, tt.wantErr)
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("GetSecret(%q) ErrNotFound = %v, want %v", tt.secret, errors.Is(err, ErrNotFound), tt.notFound)
			}
			if got != tt.want {
				t.Errorf("GetSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestNewFileProviderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFileProvider(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing directory should fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileProvider(file); err == nil {
		t.Error("regular file should fail")
	}
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "ollama-api-key", "from-file", 0o400)
	writeSecret(t, dir, "shared", "file-loses", 0o400)
	t.Setenv("TEST_SECRET_SHARED", "env-wins")

	files, err := NewFileProvider(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(NewEnvProvider("TEST_SECRET_"), files)
	ctx := context.Background()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "plain-key", want: "plain-key"},
		{input: "", want: ""},
		{input: "${secret:ollama-api-key}", want: "from-file"},
		{input: "${secret:shared}", want: "env-wins"},
		{input: "Bearer ${secret:shared}", want: "Bearer env-wins"},
		{input: "${secret:unknown}", wantErr: true},
	}

	for _, tt := range tests {
		got, err := r.Resolve(ctx, tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolverStopsOnProviderError(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "key", "bad", 0o666)
	t.Setenv("TEST_SECRET_KEY", "")

	files, err := NewFileProvider(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(files, NewEnvProvider("TEST_SECRET_"))

	_, err = r.GetSecret(context.Background(), "key")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSecret() error = %v, want permission error", err)
	}
	if !strings.Contains(err.Error(), "file provider") {
		t.Errorf("error %q should name the provider", err)
	}
}

func TestHasReference(t *testing.T) {
	if !HasReference("${secret:a}") {
		t.Error("HasReference(${secret:a}) = false")
	}
	for _, s := range []string{"", "sk-123", "${env:a}", "$secret:a"} {
		if HasReference(s) {
			t.Errorf("HasReference(%q) = true", s)
		}
	}
}

func TestRedactName(t *testing.T) {
	if got := redactName("openai-api-key"); got != "op...ey" {
		t.Errorf("redactName() = %q", got)
	}
	if got := redactName("key"); got != "***" {
		t.Errorf("redactName(short) = %q", got)
	}
}
