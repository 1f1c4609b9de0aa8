package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/focos/internal/constants"
	"github.com/julianstephens/focos/internal/storage"
)

// setupTestDB creates an initialized focos database holding one key.
func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focos.db")
	s := storage.NewSQLiteStore(dbPath)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := s.Set(constants.KeyUserXP, value); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func readXP(t *testing.T, dbPath string) string {
	t.Helper()
	s := storage.NewSQLiteStore(dbPath)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer s.Close()
	v, err := s.Get(constants.KeyUserXP)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	return v
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, "10")
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(info.Path), mgr.Dir())
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}
	if got := readXP(t, info.Path); got != "10" {
		t.Errorf("backup userXp = %q, want 10", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() error = %v, want ErrNoDatabase", err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, "1")
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local), 24*time.Hour)

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	oldest := backups[len(backups)-1].Timestamp
	if want := time.Date(2026, 1, 4, 8, 0, 0, 0, time.Local); !oldest.Equal(want) {
		t.Errorf("oldest kept backup = %v, want %v", oldest, want)
	}
}

func TestListOrderAndFiltering(t *testing.T) {
	dbPath := setupTestDB(t, "1")
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local), time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatal(err)
		}
	}
	for _, junk := range []string{"notes.txt", "focos-garbage.db", "other-20260301-120000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), junk), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v then %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "focos.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want empty", backups)
	}
}

func TestUniqueNamesWithinOneSecond(t *testing.T) {
	dbPath := setupTestDB(t, "1")
	mgr := NewManager(dbPath)
	fixed := time.Date(2026, 5, 5, 5, 5, 5, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatal(err)
		}
		if seen[info.Name] {
			t.Fatalf("duplicate backup name %s", info.Name)
		}
		seen[info.Name] = true
	}
	backups, _ := mgr.List()
	if len(backups) != 3 {
		t.Errorf("List() returned %d backups, want 3", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t, "10")
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2026, 2, 2, 9, 0, 0, 0, time.Local), time.Minute)

	saved, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	s := storage.NewSQLiteStore(dbPath)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(constants.KeyUserXP, "999"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	path, err := mgr.Resolve(saved.Name)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	if got := readXP(t, dbPath); got != "10" {
		t.Errorf("restored userXp = %q, want 10", got)
	}
	if previous == "" {
		t.Fatal("Restore() did not back up the current database")
	}
	if got := readXP(t, previous); got != "999" {
		t.Errorf("pre-restore backup userXp = %q, want 999", got)
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath := setupTestDB(t, "1")
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.db")
	if err := os.WriteFile(corrupt, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(corrupt); err == nil {
		t.Error("Restore() accepted a corrupt file")
	}

	if _, err := mgr.Restore(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("Restore() accepted a missing file")
	}

	if got := readXP(t, dbPath); got != "1" {
		t.Errorf("database changed after failed restore: userXp = %q", got)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "focos.db"))
	if _, err := mgr.Resolve("focos-20260101-000000.db"); err == nil {
		t.Error("Resolve() found a backup that does not exist")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"focos-20260101-083000.db", true},
		{"focos-20260101-083000-2.db", true},
		{"focos-2026.db", false},
		{"other-20260101-083000.db", false},
		{"focos-20260101-083000.json", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
