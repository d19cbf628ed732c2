package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"seam/internal/config"
	"seam/internal/history"
	"seam/internal/httputil"
	"seam/internal/log"
	"seam/internal/media"
	"seam/internal/player"
	"seam/internal/provider"
	"seam/internal/record"
	"seam/internal/ui"
)

var (
	flagHeaders []string
	flagJSON    bool
	flagPick    bool
	flagPlay    bool
	flagFirst   bool
	flagRecord  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <platform> <room>",
	Short: "Resolve a live room to its stream URLs",
	Example: `  seam resolve bilibili 6
  seam resolve bilibili 6 -H "Cookie: SESSDATA=..." --json
  seam resolve 173 96 --play
  seam resolve bilibili 6 --record ~/Videos`,
	Args: cobra.ExactArgs(2),
	RunE: resolveRun,
}

func init() {
	resolveCmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", nil, `Extra request header "Key: Value" (repeatable)`)
	resolveCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the result as JSON")
	resolveCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick a stream URL interactively")
	resolveCmd.Flags().BoolVar(&flagPlay, "play", false, "Open the chosen stream in the media player")
	resolveCmd.Flags().BoolVarP(&flagFirst, "first", "1", false, "Print only the first stream URL")
	resolveCmd.Flags().StringVarP(&flagRecord, "record", "r", "", "Record the chosen stream into this directory with ffmpeg")
}

func resolveRun(cmd *cobra.Command, args []string) error {
	platform, room := args[0], args[1]

	headers, err := requestHeaders(cfg, platform, flagHeaders)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := newRegistry()
	node, err := resolveRoom(ctx, reg, platform, room, headers)
	if err != nil {
		return err
	}
	return presentNode(ctx, reg, node)
}

// requestHeaders merges configured headers for platform with -H flags.
func requestHeaders(c *config.Config, platform string, raw []string) (map[string]string, error) {
	extra := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, err := httputil.ParseHeader(h)
		if err != nil {
			return nil, err
		}
		extra[k] = v
	}
	return httputil.MergeHeaders(c.HeadersFor(platform), extra), nil
}

// resolveRoom resolves one room and records the lookup when history is enabled.
func resolveRoom(ctx context.Context, reg *provider.Registry, platform, room string, headers map[string]string) (*media.Node, error) {
	node, err := reg.Resolve(ctx, platform, room, headers)

	switch {
	case err == nil:
		recordLookup(ctx, media.Lookup{
			Platform: platform,
			InputID:  room,
			RoomID:   node.RoomID,
			Title:    node.Title,
			Anchor:   node.Anchor,
			Live:     true,
		})
		return node, nil
	case errors.Is(err, provider.ErrNotLive):
		recordLookup(ctx, media.Lookup{Platform: platform, InputID: room})
		log.Debugf("%v", err)
		return nil, fmt.Errorf("room %s is not live", room)
	default:
		return nil, fmt.Errorf("resolving %s room %s: %w", platform, room, err)
	}
}

// recordLookup appends to the lookup log. Failures are logged, never fatal.
func recordLookup(ctx context.Context, l media.Lookup) {
	if !cfg.History {
		return
	}
	path, err := config.HistoryPath()
	if err != nil {
		log.Warnf("history: %v", err)
		return
	}
	store, err := history.Open(path)
	if err != nil {
		log.Warnf("history: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, l); err != nil {
		log.Warnf("history: %v", err)
	}
}

// presentNode prints or plays a resolved node according to the output flags.
func presentNode(ctx context.Context, reg *provider.Registry, node *media.Node) error {
	if len(node.URLs) == 0 && (flagFirst || flagPick || flagPlay || flagRecord != "") {
		return fmt.Errorf("room %s is live but no stream URL was returned", node.RoomID)
	}

	url := node.FirstURL()
	if flagPick {
		idx, err := ui.Select("Stream", node.URLs)
		if err != nil {
			return err
		}
		url = node.URLs[idx]
	}

	if flagRecord != "" {
		path, err := record.New(flagRecord, reg.PlaybackHeaders(node.Platform)).Record(ctx, node, url)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", path)
		return nil
	}

	if flagPlay {
		p := player.New(cfg.Player, reg.PlaybackHeaders(node.Platform))
		if !p.Available() {
			return fmt.Errorf("%s not found in PATH", p.Name())
		}
		log.Debugf("playing %s with %s", url, p.Name())
		return p.Play(url, node.Title)
	}

	switch {
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	case flagFirst || flagPick:
		fmt.Println(url)
	case ui.IsTerminal():
		fmt.Print(ui.RenderNode(node, true))
	default:
		for _, u := range node.URLs {
			fmt.Println(u)
		}
	}
	return nil
}
