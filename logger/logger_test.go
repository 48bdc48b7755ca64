package logger

import (
	"fmt"
	"testing"
)

func TestGetLogsRespectsCount(t *testing.T) {
	logBuffer = nil
	for i := 0; i < 5; i++ {
		addToBuffer("INFO", fmt.Sprintf("entry %d", i))
	}

	if got := GetLogs(3, "info"); len(got) != 3 {
		t.Errorf("GetLogs(3) returned %d entries, want 3", len(got))
	}
	if got := GetLogs(10, "info"); len(got) != 5 {
		t.Errorf("GetLogs(10) returned %d entries, want 5", len(got))
	}
}

func TestGetLogsFiltersByLevel(t *testing.T) {
	logBuffer = nil
	addToBuffer("DEBUG", "noise")
	addToBuffer("INFO", "signal")
	addToBuffer("ERROR", "boom")

	got := GetLogs(10, "info")
	if len(got) != 2 {
		t.Fatalf("GetLogs at info returned %d entries, want 2", len(got))
	}
	for _, line := range got {
		if line == "" {
			t.Error("empty log line")
		}
	}

	if got := GetLogs(10, "error"); len(got) != 1 {
		t.Errorf("GetLogs at error returned %d entries, want 1", len(got))
	}
}
