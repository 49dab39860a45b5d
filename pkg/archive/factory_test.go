package archive

import (
	"context"
	"testing"
)

func TestNewFactory_InMemory(t *testing.T) {
	arc, err := NewFactory(context.Background(), Config{Type: TypeInMemory})
	if err != nil {
		t.Fatalf("NewFactory failed: %v", err)
	}
	if arc == nil {
		t.Fatal("expected an archive")
	}
}

func TestNewFactory_UnsupportedType(t *testing.T) {
	if _, err := NewFactory(context.Background(), Config{Type: "etcd"}); err == nil {
		t.Fatal("expected error for unsupported archive type")
	}
}
