package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/rota/internal/constants"
)

const testConnStr = "postgres://rota@localhost:5432/rota?sslmode=disable"

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("  "); err == nil {
		t.Error("SetConnectionString with blank input should return an error")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.EnvDBConnection, "")

	got, err := ResolveConnectionString()
	if err != nil || got != "" {
		t.Fatalf("empty keyring: got %q, %v; want empty", got, err)
	}

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatal(err)
	}
	got, err = ResolveConnectionString()
	if err != nil || got != testConnStr {
		t.Errorf("keyring fallback: got %q, %v; want %q", got, err, testConnStr)
	}

	t.Setenv(constants.EnvDBConnection, "postgres://env@localhost/rota")
	got, err = ResolveConnectionString()
	if err != nil || got != "postgres://env@localhost/rota" {
		t.Errorf("environment should win: got %q, %v", got, err)
	}
}
