package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"seam/internal/httputil"
)

type fixtureCDN struct {
	Host  string `json:"host"`
	Extra string `json:"extra"`
}

type fixtureCodec struct {
	Name     string       `json:"codec_name"`
	BaseURL  string       `json:"base_url"`
	AcceptQN []uint64     `json:"accept_qn"`
	URLInfo  []fixtureCDN `json:"url_info"`
}

type fixtureFormat struct {
	Name  string         `json:"format_name"`
	Codec []fixtureCodec `json:"codec"`
}

type fixtureStream struct {
	Protocol string          `json:"protocol_name"`
	Format   []fixtureFormat `json:"format"`
}

// playBody wraps streams in the getRoomPlayInfo envelope.
func playBody(t *testing.T, streams ...fixtureStream) string {
	t.Helper()
	doc := map[string]any{
		"code":    0,
		"message": "0",
		"data": map[string]any{
			"room_id": 7734200,
			"playurl_info": map[string]any{
				"playurl": map[string]any{"stream": streams},
			},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshaling fixture: %v", err)
	}
	return string(data)
}

// twoCDNs returns a codec served by two CDN hosts.
func twoCDNs(base string, tiers ...uint64) fixtureCodec {
	return fixtureCodec{
		Name:     "avc",
		BaseURL:  base,
		AcceptQN: tiers,
		URLInfo: []fixtureCDN{
			{Host: "https://cn-a.bilivideo.com", Extra: "?expires=1&cdn=a"},
			{Host: "https://cn-b.bilivideo.com", Extra: "?expires=1&cdn=b"},
		},
	}
}

const (
	initLive    = `{"code":0,"msg":"ok","data":{"room_id":7734200,"short_id":6,"live_status":1}}`
	initOffline = `{"code":0,"msg":"ok","data":{"room_id":7734200,"short_id":6,"live_status":0}}`
	infoFull    = `{"code":0,"data":{"room_info":{"title":"Weekend stream","cover":"https://i0.hdslb.com/cover.jpg"},"anchor_info":{"base_info":{"uname":"anchor","face":"https://i0.hdslb.com/face.jpg"}}}}`
)

// fakeBilibili serves the three bilibili endpoints and counts calls.
type fakeBilibili struct {
	initBody   string
	playBodies map[string]string // keyed by qn
	infoBody   string
	infoStatus int

	mu         sync.Mutex
	initCalls  int
	playCalls  int
	infoCalls  int
	qns        []string
	playRoomID string
	cookie     string
	referer    string
}

func (f *fakeBilibili) start(t *testing.T) *Bilibili {
	t.Helper()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.URL.Path {
		case "/init":
			f.initCalls++
			w.Write([]byte(f.initBody))
		case "/play":
			f.playCalls++
			qn := r.URL.Query().Get("qn")
			f.qns = append(f.qns, qn)
			f.playRoomID = r.URL.Query().Get("room_id")
			f.cookie = r.Header.Get("Cookie")
			f.referer = r.Header.Get("Referer")
			body, ok := f.playBodies[qn]
			if !ok {
				http.Error(w, "unexpected qn", http.StatusBadRequest)
				return
			}
			w.Write([]byte(body))
		case "/info":
			f.infoCalls++
			if f.infoStatus != 0 {
				w.WriteHeader(f.infoStatus)
				return
			}
			w.Write([]byte(f.infoBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := httputil.NewClient(httputil.Options{HTTPClient: srv.Client()})
	return &Bilibili{
		client:  client,
		initURL: srv.URL + "/init",
		playURL: srv.URL + "/play",
		infoURL: srv.URL + "/info",
	}
}
