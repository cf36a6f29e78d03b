package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Store-Desk/Storedesk/internal/domain/session"
)

func testRecord() *session.Record {
	return &session.Record{
		User: session.Profile{
			ID: 1, Username: "emilys", Email: "emily.johnson@x.dummyjson.com",
			FirstName: "Emily", LastName: "Johnson",
		},
		Token:   "jwt-token",
		SavedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_SessionRoundtrip(t *testing.T) {
	s := New(t.TempDir(), nil)

	if err := s.SaveSession(testRecord()); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	rec, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("LoadSession() returned nil record")
	}
	if rec.User.Username != "emilys" || rec.User.ID != 1 {
		t.Errorf("user = %+v", rec.User)
	}
	if rec.Token != "jwt-token" {
		t.Errorf("Token = %q, want jwt-token", rec.Token)
	}
	if !rec.SavedAt.Equal(testRecord().SavedAt) {
		t.Errorf("SavedAt = %v", rec.SavedAt)
	}
}

func TestStore_LoadSession_Missing(t *testing.T) {
	s := New(t.TempDir(), nil)

	rec, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil for a missing file", rec)
	}
}

func TestStore_LoadSession_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	if err := os.WriteFile(s.SessionPath(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadSession(); err == nil {
		t.Fatal("LoadSession() should fail on a corrupt record")
	}
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	s := New(t.TempDir(), nil)
	if err := s.SaveSession(testRecord()); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := s.WriteToken("jwt-token"); err != nil {
		t.Fatalf("WriteToken() failed: %v", err)
	}

	for _, path := range []string{s.SessionPath(), s.TokenPath()} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if mode := info.Mode().Perm(); mode != 0600 {
			t.Errorf("%s mode = %04o, want 0600", filepath.Base(path), mode)
		}
	}
}

func TestStore_TokenMirror(t *testing.T) {
	s := New(t.TempDir(), nil)

	// Missing token reads as anonymous.
	token, err := s.ReadToken()
	if err != nil {
		t.Fatalf("ReadToken() failed: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}

	if err := s.WriteToken("jwt-token"); err != nil {
		t.Fatalf("WriteToken() failed: %v", err)
	}
	token, err = s.ReadToken()
	if err != nil {
		t.Fatalf("ReadToken() failed: %v", err)
	}
	if token != "jwt-token" {
		t.Errorf("token = %q, want jwt-token", token)
	}
	if got := s.Token(); got != "jwt-token" {
		t.Errorf("Token() = %q, want jwt-token", got)
	}

	// The mirror lives in its own file, separate from the record.
	if _, err := os.Stat(s.SessionPath()); !os.IsNotExist(err) {
		t.Error("writing the token must not create the session record")
	}
}

func TestStore_Clear_Idempotent(t *testing.T) {
	s := New(t.TempDir(), nil)

	// Save twice so a backup exists as well.
	for i := 0; i < 2; i++ {
		if err := s.SaveSession(testRecord()); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
		if err := s.WriteToken("jwt-token"); err != nil {
			t.Fatalf("WriteToken() failed: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		if err := s.ClearSession(); err != nil {
			t.Fatalf("ClearSession() #%d failed: %v", i+1, err)
		}
		if err := s.ClearToken(); err != nil {
			t.Fatalf("ClearToken() #%d failed: %v", i+1, err)
		}
	}

	if rec, err := s.LoadSession(); err != nil || rec != nil {
		t.Errorf("after clear: rec=%+v err=%v, want nil/nil", rec, err)
	}
	if token, err := s.ReadToken(); err != nil || token != "" {
		t.Errorf("after clear: token=%q err=%v, want empty", token, err)
	}

	// Backups hold the same secrets; clear must take them too.
	for _, path := range []string{s.SessionPath() + ".bak", s.TokenPath() + ".bak"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still present after clear", filepath.Base(path))
		}
	}
}

func TestStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir, nil)

	if err := s.WriteToken("jwt-token"); err != nil {
		t.Fatalf("WriteToken() failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("data dir path is not a directory")
	}
	if runtime.GOOS != "windows" {
		if mode := info.Mode().Perm(); mode != 0700 {
			t.Errorf("data dir mode = %04o, want 0700", mode)
		}
	}
}

func TestStore_SaveSession_Overwrites(t *testing.T) {
	s := New(t.TempDir(), nil)

	if err := s.SaveSession(testRecord()); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	rec := testRecord()
	rec.Token = "rotated"
	if err := s.SaveSession(rec); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	got, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if got.Token != "rotated" {
		t.Errorf("Token = %q, want rotated", got.Token)
	}

	// The overwritten version survives as a backup next to the file.
	bak, err := os.ReadFile(s.SessionPath() + ".bak")
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	var prev session.Record
	if err := json.Unmarshal(bak, &prev); err != nil {
		t.Fatalf("backup not parseable: %v", err)
	}
	if prev.Token != "jwt-token" {
		t.Errorf("backup Token = %q, want the previous jwt-token", prev.Token)
	}
}
