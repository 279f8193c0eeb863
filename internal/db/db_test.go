package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type widget struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string
}

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "assistant.db")

	gdb, err := Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(gdb)

	if err := Migrate(gdb, &widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "x"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
