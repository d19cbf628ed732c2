// Package record saves a live stream to disk with ffmpeg.
// Streams are remuxed with -c copy; nothing is re-encoded.
// ffmpeg is started with an explicit argument slice and output paths are
// confined to the target directory.
package record

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"seam/internal/log"
	"seam/internal/media"
)

// Recorder captures one stream until it ends or the context is cancelled.
type Recorder struct {
	Dir     string
	Headers map[string]string // sent with every stream request

	now func() time.Time
}

// New creates a recorder writing into dir.
func New(dir string, headers map[string]string) *Recorder {
	return &Recorder{Dir: dir, Headers: headers, now: time.Now}
}

// Record captures url into a timestamped .ts file named after the node and
// returns its path. Cancelling ctx stops ffmpeg; the partial file is kept
// since a live capture is never "complete".
func (r *Recorder) Record(ctx context.Context, node *media.Node, url string) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	absDir, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := SafePath(absDir, r.filename(node))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, r.args(url, node.Title, outputPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Ask ffmpeg to finalize the container instead of killing it outright.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 10 * time.Second

	log.Infof("recording to %s", outputPath)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return outputPath, nil
		}
		return "", fmt.Errorf("ffmpeg recording failed: %w", err)
	}
	return outputPath, nil
}

func (r *Recorder) filename(node *media.Node) string {
	name := node.Platform + "-" + node.RoomID
	if node.Anchor != "" {
		name += "-" + node.Anchor
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return SanitizeFilename(name + "-" + r.now().Format("20060102-150405") + ".ts")
}

func (r *Recorder) args(url, title, outputPath string) []string {
	args := []string{"-y", "-loglevel", "warning"}

	if len(r.Headers) > 0 {
		lines := make([]string, 0, len(r.Headers))
		for k, v := range r.Headers {
			lines = append(lines, k+": "+v+"\r\n")
		}
		sort.Strings(lines)
		args = append(args, "-headers", strings.Join(lines, ""))
	}

	args = append(args,
		"-i", url,
		"-c", "copy",
	)
	if title != "" {
		args = append(args, "-metadata", "title="+title)
	}
	return append(args, "-f", "mpegts", outputPath)
}

// SanitizeFilename strips directory components and characters that are
// invalid on common filesystems.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

// SafePath joins dir and a sanitized filename and verifies the result stays inside dir.
func SafePath(dir, filename string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	resolved, err := filepath.Abs(filepath.Join(absDir, SanitizeFilename(filename)))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", resolved, absDir)
	}
	return resolved, nil
}
