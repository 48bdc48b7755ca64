package job

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearLogsJobTruncatesInPlace(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARCADIA_LOG_FOLDER", dir)

	logPath := filepath.Join(dir, "arcadia.log")
	if err := os.WriteFile(logPath, []byte("old entries\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	NewClearLogsJob().Run()

	// the live file must still exist, empty, under the same path
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal("live log file missing after rotation:", err)
	}
	if info.Size() != 0 {
		t.Errorf("live log size = %d, want 0", info.Size())
	}

	prev, err := os.ReadFile(logPath + ".prev")
	if err != nil {
		t.Fatal("previous log missing:", err)
	}
	if string(prev) != "old entries\n" {
		t.Errorf("previous log = %q, want rotated content", prev)
	}
}

func TestClearLogsJobNoLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARCADIA_LOG_FOLDER", dir)

	// nothing to rotate; must not create a .prev file
	NewClearLogsJob().Run()

	if _, err := os.Stat(filepath.Join(dir, "arcadia.log.prev")); !os.IsNotExist(err) {
		t.Error("rotation without a log file must not create a .prev file")
	}
}
