package player

// VLC drives the VLC media player.
type VLC struct {
	headers map[string]string
}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

func (v *VLC) Play(url, title string) error {
	return run("vlc", v.args(url, title))
}

func (v *VLC) args(url, title string) []string {
	args := []string{url, "--play-and-exit"}
	if title != "" {
		args = append(args, "--meta-title", title)
	}
	if ref := v.headers["Referer"]; ref != "" {
		args = append(args, "--http-referrer", ref)
	}
	if ua := v.headers["User-Agent"]; ua != "" {
		args = append(args, "--http-user-agent", ua)
	}
	return args
}
