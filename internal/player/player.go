// Package player launches external media players on a resolved stream URL.
// Players are started with exec.Command and explicit argument slices so
// platform-supplied strings never reach a shell.
package player

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
)

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(url, title string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name. Headers are forwarded on every HTTP request
// the player makes; some CDNs reject requests without the platform Referer.
func New(name string, headers map[string]string) Player {
	switch name {
	case "vlc":
		return &VLC{headers: headers}
	case "iina", "celluloid":
		return &MPV{name: name, headers: headers}
	default:
		return &MPV{name: "mpv", headers: headers}
	}
}

// run starts bin with args attached to the current terminal.
// A non-zero exit is treated as the user closing the player.
func run(bin string, args []string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}

func available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// headerFields renders headers as sorted "Key: Value" pairs.
func headerFields(headers map[string]string) []string {
	fields := make([]string, 0, len(headers))
	for k, v := range headers {
		fields = append(fields, k+": "+v)
	}
	sort.Strings(fields)
	return fields
}
