package migrations

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		t.Fatalf("iofs: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected first version 1, got %d", first)
	}
	up, _, err := src.ReadUp(first)
	if err != nil {
		t.Fatalf("read up: %v", err)
	}
	up.Close()
	down, _, err := src.ReadDown(first)
	if err != nil {
		t.Fatalf("read down: %v", err)
	}
	down.Close()
}
