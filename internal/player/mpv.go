package player

import "strings"

// MPV drives mpv and players that accept mpv-style flags (iina, celluloid).
type MPV struct {
	name    string
	headers map[string]string
}

func (m *MPV) Name() string { return m.name }

func (m *MPV) Available() bool { return available(m.name) }

func (m *MPV) Play(url, title string) error {
	return run(m.name, m.args(url, title))
}

func (m *MPV) args(url, title string) []string {
	args := []string{url}
	if title != "" {
		args = append(args, "--force-media-title="+title)
	}
	if fields := headerFields(m.headers); len(fields) > 0 {
		// mpv splits this list on commas
		escaped := make([]string, len(fields))
		for i, f := range fields {
			escaped[i] = strings.ReplaceAll(f, ",", `\,`)
		}
		args = append(args, "--http-header-fields="+strings.Join(escaped, ","))
	}
	return args
}
