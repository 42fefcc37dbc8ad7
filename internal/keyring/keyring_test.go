package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	dsn := "postgres://student@localhost:5432/unidash?sslmode=disable"
	if err := SyncDSN.Set(dsn); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := SyncDSN.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != dsn {
		t.Errorf("Get() = %q, want %q", got, dsn)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SyncDSN.Set("  "); err == nil {
		t.Error("Set with blank secret should fail")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_, err := Entry{Service: "unidash-test", User: "nobody"}.Get()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SyncDSN.Set("host=localhost dbname=unidash"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := SyncDSN.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := SyncDSN.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete, Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := SyncDSN.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))

	if _, err := SyncDSN.Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() should be false when the backend errors")
	}
}
