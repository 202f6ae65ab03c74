package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// exercise checks the contract every backend must honor.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "money-manager-test-" + t.Name()

	if _, err := s.Load(ctx, key+"-missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}

	if err := s.Save(ctx, key, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("Save() again error = %v", err)
	}
	got, err := s.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Load() = %q, want %q", got, `[]`)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	data := []byte("abc")
	m.Save(ctx, "k", data)
	data[0] = 'x'
	got, _ := m.Load(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Load() = %q, want %q", got, "abc")
	}
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f := NewFile(dir)
	exercise(t, f)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".json" {
		t.Errorf("store directory content = %v, want a single json file", entries)
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("MM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MM_TEST_REDIS_ADDR is not set")
	}
	s, err := OpenRedis(context.Background(), "redis://"+addr)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("MM_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("MM_TEST_POSTGRES_URL is not set")
	}
	s, err := OpenPostgres(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "mem:", want: "*store.Memory"},
		{url: "file:" + dir, want: "*store.File"},
		{url: dir, want: "*store.File"},
		{url: "ftp://example.com", wantErr: true},
		{url: "", wantErr: true},
	}
	for _, tt := range tests {
		s, err := Open(context.Background(), tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got := typeName(s); got != tt.want {
			t.Errorf("Open(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *Memory:
		return "*store.Memory"
	case *File:
		return "*store.File"
	case *Redis:
		return "*store.Redis"
	case *Postgres:
		return "*store.Postgres"
	}
	return "unknown"
}
