package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
	tu "github.com/desertthunder/getlrc/internal/testing"
)

// newRoot creates n empty audio files under a temp root and returns the root and the file paths.
func newRoot(t *testing.T, n int) (string, []string) {
	t.Helper()
	root := t.TempDir()
	paths := make([]string, n)
	for i := range n {
		paths[i] = filepath.Join(root, fmt.Sprintf("%02d.flac", i))
		if err := os.WriteFile(paths[i], nil, 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", paths[i], err)
		}
	}
	return root, paths
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "getlrc", "session.json"), nil)
}

func TestStore(t *testing.T) {
	t.Run("Load Without File", func(t *testing.T) {
		store := newStore(t)

		sess, err := store.Load(t.TempDir())
		if err != nil || sess != nil {
			t.Errorf("expected nil, nil; got %v, %v", sess, err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 4)

		sess := models.NewSession("abc", root, paths)
		for _, o := range []models.Outcome{models.OutcomeDownloaded, models.OutcomeNotFound} {
			p, _ := sess.Next()
			sess.Record(filepath.Base(p), o)
		}

		if err := store.Save(sess); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := store.Load(root)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		if loaded.ID != "abc" || loaded.RootPath != root {
			t.Errorf("unexpected identity %s %s", loaded.ID, loaded.RootPath)
		}
		if strings.Join(loaded.PendingFiles, ",") != strings.Join(sess.PendingFiles, ",") {
			t.Errorf("pending mismatch: %v != %v", loaded.PendingFiles, sess.PendingFiles)
		}
		if loaded.Counts() != sess.Counts() {
			t.Errorf("counts mismatch: %+v != %+v", loaded.Counts(), sess.Counts())
		}
		if len(loaded.LogHistory) != 2 || loaded.LogHistory[1].Status != models.OutcomeNotFound {
			t.Errorf("unexpected log history %+v", loaded.LogHistory)
		}
	})

	t.Run("Persisted Field Names", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 1)

		if err := store.Save(models.NewSession("abc", root, paths)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		data := tu.MustReadFile(t, store.Path())
		for _, key := range []string{
			`"root_path"`, `"pending_files"`, `"downloaded_count"`, `"cached_count"`,
			`"existing_count"`, `"failed_count"`, `"log_history"`,
		} {
			if !strings.Contains(data, key) {
				t.Errorf("expected %s in session file", key)
			}
		}
	})

	t.Run("Save Caps Log", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 1)

		sess := models.NewSession("abc", root, paths)
		for i := range models.MaxLogHistory + 50 {
			sess.LogHistory = append(sess.LogHistory, models.LogEntry{Filename: fmt.Sprint(i), Status: models.OutcomeError})
		}

		if err := store.Save(sess); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := store.Peek()
		if err != nil {
			t.Fatalf("failed to peek: %v", err)
		}
		if len(loaded.LogHistory) != models.MaxLogHistory {
			t.Errorf("expected %d entries, got %d", models.MaxLogHistory, len(loaded.LogHistory))
		}
	})

	t.Run("Torn Temp File Is Ignored", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 3)

		if err := store.Save(models.NewSession("v1", root, paths)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		torn := filepath.Join(filepath.Dir(store.Path()), "session-123.json.tmp")
		if err := os.WriteFile(torn, []byte(`{"root_path": "`), 0o644); err != nil {
			t.Fatal(err)
		}

		loaded, err := store.Load(root)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if loaded.ID != "v1" {
			t.Errorf("expected previous version, got %s", loaded.ID)
		}
	})

	t.Run("No Temp Files Remain After Save", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 1)
		store.Save(models.NewSession("abc", root, paths))

		matches, _ := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), tempPattern))
		if len(matches) != 0 {
			t.Errorf("expected no temp files, found %v", matches)
		}
	})

	t.Run("Corrupt File", func(t *testing.T) {
		tc := []struct {
			name string
			body string
			want error
		}{
			{name: "garbage", body: "not json at all", want: shared.ErrSessionCorrupt},
			{name: "truncated", body: `{"root_path": "/music", "pending_fi`, want: shared.ErrSessionCorrupt},
			{name: "missing root", body: `{"pending_files": []}`, want: shared.ErrSessionCorrupt},
			{
				name: "unknown outcome tag",
				body: `{"root_path": "/music", "pending_files": ["/music/a.flac"], "log_history": [{"filename": "b.flac", "status": "Skipped"}]}`,
				want: models.ErrUnknownOutcome,
			},
			{
				name: "negative counter",
				body: `{"root_path": "/music", "pending_files": [], "failed_count": -1}`,
				want: shared.ErrSessionCorrupt,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := newStore(t)
				os.MkdirAll(filepath.Dir(store.Path()), 0o755)
				if err := os.WriteFile(store.Path(), []byte(tt.body), 0o644); err != nil {
					t.Fatal(err)
				}

				sess, err := store.Load("/music")
				if sess != nil {
					t.Errorf("expected no session, got %+v", sess)
				}
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				if !errors.Is(err, shared.ErrSessionCorrupt) {
					t.Errorf("expected error to wrap ErrSessionCorrupt, got %v", err)
				}
			})
		}
	})

	t.Run("Root Mismatch", func(t *testing.T) {
		store := newStore(t)
		rootA, paths := newRoot(t, 2)
		rootB := t.TempDir()

		if err := store.Save(models.NewSession("a", rootA, paths)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		sess, err := store.Load(rootB)
		if sess != nil || !errors.Is(err, shared.ErrSessionMismatch) {
			t.Errorf("expected ErrSessionMismatch, got %v, %v", sess, err)
		}

		tu.AssertFileExists(t, store.Path())

		kept, err := store.Load(rootA)
		if err != nil || kept == nil || kept.ID != "a" {
			t.Errorf("session for the original root should still load, got %v, %v", kept, err)
		}
	})

	t.Run("Root Comparison Cleans Paths", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 1)
		store.Save(models.NewSession("a", root, paths))

		sess, err := store.Load(root + string(filepath.Separator) + ".")
		if err != nil || sess == nil {
			t.Errorf("equivalent root should match, got %v, %v", sess, err)
		}
	})

	t.Run("Stale", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 12)
		for _, p := range paths[:5] {
			os.Remove(p)
		}
		store.Save(models.NewSession("a", root, paths))

		sess, err := store.Load(root)
		if sess != nil || !errors.Is(err, shared.ErrSessionStale) {
			t.Errorf("expected ErrSessionStale, got %v, %v", sess, err)
		}
	})

	t.Run("Few Missing Files Are Tolerated", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 12)
		for _, p := range paths[:4] {
			os.Remove(p)
		}
		store.Save(models.NewSession("a", root, paths))

		if sess, err := store.Load(root); err != nil || sess == nil {
			t.Errorf("expected session to load, got %v, %v", sess, err)
		}
	})

	t.Run("Empty Pending Is Stale", func(t *testing.T) {
		store := newStore(t)
		root := t.TempDir()
		store.Save(models.NewSession("a", root, nil))

		if _, err := store.Load(root); !errors.Is(err, shared.ErrSessionStale) {
			t.Errorf("expected ErrSessionStale, got %v", err)
		}
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		store := newStore(t)
		root, paths := newRoot(t, 1)
		store.Save(models.NewSession("a", root, paths))

		stray := filepath.Join(filepath.Dir(store.Path()), "session-999.json.tmp")
		os.WriteFile(stray, []byte("x"), 0o644)

		if err := store.Delete(root); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := store.Delete(root); err != nil {
			t.Fatalf("second delete should succeed: %v", err)
		}

		for _, p := range []string{store.Path(), stray} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("expected %s to be removed", p)
			}
		}
	})

	t.Run("Delete Keeps Other Root", func(t *testing.T) {
		store := newStore(t)
		rootA, paths := newRoot(t, 1)
		store.Save(models.NewSession("a", rootA, paths))

		if err := store.Delete(t.TempDir()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		tu.AssertFileExists(t, store.Path())
	})

	t.Run("Delete Removes Corrupt File", func(t *testing.T) {
		store := newStore(t)
		os.MkdirAll(filepath.Dir(store.Path()), 0o755)
		os.WriteFile(store.Path(), []byte("{"), 0o644)

		if err := store.Delete("/music"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
			t.Error("expected corrupt session to be removed")
		}
	})
}
