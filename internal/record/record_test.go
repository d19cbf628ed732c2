package record

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seam/internal/media"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal.ts", "normal.ts"},
		{"a:b*c?.ts", "a_b_c_.ts"},
		{"../../etc/passwd", "passwd"},
		{"name..ts", "name_ts"},
		{"", "untitled"},
		{"..", "_"},
		{".", "untitled"},
		{"主播-直播.ts", "主播-直播.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafePath(t *testing.T) {
	dir := t.TempDir()

	got, err := SafePath(dir, "../escape.ts")
	if err != nil {
		t.Fatalf("SafePath() error: %v", err)
	}
	if filepath.Dir(got) != dir {
		t.Errorf("SafePath() = %q, want a file inside %q", got, dir)
	}

	if _, err := SafePath(dir, ".."); err != nil {
		t.Errorf("SafePath(\"..\") should sanitize to untitled, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	r := New(t.TempDir(), nil)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC) }

	got := r.filename(&media.Node{Platform: "bilibili", RoomID: "7734200", Anchor: "a/b"})
	if got != "bilibili-7734200-a_b-20240501-203000.ts" {
		t.Errorf("filename = %q", got)
	}

	got = r.filename(&media.Node{Platform: "173", RoomID: "96"})
	if got != "173-96-20240501-203000.ts" {
		t.Errorf("filename without anchor = %q", got)
	}
}

func TestArgs(t *testing.T) {
	r := New("/tmp", map[string]string{
		"User-Agent": "ua",
		"Referer":    "https://live.bilibili.com/",
	})

	got := r.args("https://cdn/x.flv", "Room", "/tmp/out.ts")
	want := []string{
		"-y", "-loglevel", "warning",
		"-headers", "Referer: https://live.bilibili.com/\r\nUser-Agent: ua\r\n",
		"-i", "https://cdn/x.flv",
		"-c", "copy",
		"-metadata", "title=Room",
		"-f", "mpegts", "/tmp/out.ts",
	}
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Errorf("args = %q\nwant %q", got, want)
	}
}

func TestArgsNeverReencode(t *testing.T) {
	got := strings.Join(New("/tmp", nil).args("https://cdn/x.flv", "", "/tmp/o.ts"), " ")
	if strings.Contains(got, "-headers") || strings.Contains(got, "-metadata") {
		t.Errorf("unexpected optional args: %s", got)
	}
	if !strings.Contains(got, "-c copy") {
		t.Errorf("args must remux with -c copy: %s", got)
	}
}
