package auth

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func jwt(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func TestKeyring_RoundTrip(t *testing.T) {
	t.Setenv(EnvToken, "")
	k := Keyring{Dir: filepath.Join(t.TempDir(), ".todosync")}

	ti, err := k.Get()
	if err != nil || ti != nil {
		t.Fatalf("get before login = %+v, %v; want nil, nil", ti, err)
	}

	if err := k.Set("Bearer abc123", nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	fi, err := os.Stat(filepath.Join(k.Dir, credFileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
	}

	ti, err = k.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ti.Token != "abc123" || ti.Source != SourceFile {
		t.Fatalf("got %+v", ti)
	}

	if err := k.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := k.Delete(); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestKeyring_EnvOverride(t *testing.T) {
	t.Setenv(EnvToken, "bearer from-env")
	k := Keyring{Dir: t.TempDir()}
	ti, err := k.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ti.Token != "from-env" || ti.Source != SourceEnv {
		t.Fatalf("got %+v", ti)
	}
}

func TestKeyring_SetRejectsEmpty(t *testing.T) {
	if err := (Keyring{Dir: t.TempDir()}).Set("  ", nil); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestKeyring_SetRecordsJWTExpiry(t *testing.T) {
	t.Setenv(EnvToken, "")
	k := Keyring{Dir: t.TempDir()}
	if err := k.Set(jwt(`{"sub":"idil","exp":1900000000}`), nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	ti, err := k.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ti.ExpiresAt == nil || !ti.ExpiresAt.Equal(time.Unix(1900000000, 0)) {
		t.Fatalf("expires = %v", ti.ExpiresAt)
	}
}

func TestDecodeClaims(t *testing.T) {
	c, err := DecodeClaims(jwt(`{"sub":"idil"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c["sub"] != "idil" {
		t.Fatalf("claims = %v", c)
	}
	if c.Expiry() != nil {
		t.Fatal("no exp claim expected")
	}

	if _, err := DecodeClaims("opaque-token"); !errors.Is(err, ErrOpaque) {
		t.Fatalf("err = %v, want ErrOpaque", err)
	}
}
