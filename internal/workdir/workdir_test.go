package workdir

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCreatesAndClosesWorkspace(t *testing.T) {
	staging := t.TempDir()

	ws, err := Open(staging, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ws.RunID() == "" {
		t.Error("generated run id is empty")
	}
	if !strings.HasPrefix(ws.Root(), staging) {
		t.Errorf("root %q not under staging %q", ws.Root(), staging)
	}
	if _, err := os.Stat(ws.Root()); err != nil {
		t.Fatalf("workspace directory missing: %v", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(ws.Root()); !os.IsNotExist(err) {
		t.Errorf("workspace directory not removed: %v", err)
	}
}

func TestOpenRejectsSecondLock(t *testing.T) {
	staging := t.TempDir()

	first, err := Open(staging, Options{RunID: "run-a"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer first.Close()

	if _, err := Open(staging, Options{RunID: "run-a"}); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Open = %v, want ErrLocked", err)
	}
}

func TestKeepFilesPreservesDirectory(t *testing.T) {
	staging := t.TempDir()

	ws, err := Open(staging, Options{RunID: "run-b", KeepFiles: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	marker := ws.Path("clips", "keep.txt")
	if _, err := ws.Mkdir("clips"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("kept file missing after Close: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ws, err := Open(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestUniquePathsDiffer(t *testing.T) {
	ws, err := Open(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ws.Close()

	a := ws.UniquePath(".wav")
	b := ws.UniquePath(".wav")
	if a == b {
		t.Errorf("UniquePath returned duplicates: %q", a)
	}
	if filepath.Dir(a) != ws.Root() {
		t.Errorf("unique path %q not rooted in workspace", a)
	}
	if !strings.HasSuffix(a, ".wav") {
		t.Errorf("unique path %q missing suffix", a)
	}
}

func TestOpenRequiresStagingDir(t *testing.T) {
	if _, err := Open("  ", Options{}); err == nil {
		t.Fatal("expected error for blank staging dir")
	}
}
