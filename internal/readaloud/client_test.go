package readaloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBase {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBase)
	}

	u, err = parseBaseURL("https://tts.local:8443/panel?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func TestParseBaseURL_MissingHostFails(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want missing host error")
	}
}

type recordedRequest struct {
	method      string
	path        string
	body        string
	contentType string
	userAgent   string
	requestID   string
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
			requestID:   r.Header.Get("X-Request-ID"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestClient_GetConfigPreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	server, seen := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tts_engine":"coqui","voice":"narrator","temperature":0.5,"seed":42,"hotkeys":{"stop_audio":"ctrl+shift+s"}}`))
	})

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	settings, err := c.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig returned error: %v", err)
	}
	if settings.TTSEngine != "coqui" || settings.Voice != "narrator" {
		t.Fatalf("settings = %#v, want coqui/narrator", settings)
	}
	if settings.Temperature == nil || *settings.Temperature != 0.5 {
		t.Fatalf("temperature = %v, want 0.5", settings.Temperature)
	}
	if settings.Volume != nil || settings.Speed != nil {
		t.Fatalf("volume/speed = %v/%v, want undefined", settings.Volume, settings.Speed)
	}
	if string(settings.Extra["seed"]) != "42" {
		t.Fatalf("extra seed = %q, want 42", settings.Extra["seed"])
	}

	if _, err := c.SaveConfig(context.Background(), settings); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}
	reqs := *seen
	if len(reqs) != 2 {
		t.Fatalf("saw %d requests, want 2", len(reqs))
	}
	var posted map[string]any
	if err := json.Unmarshal([]byte(reqs[1].body), &posted); err != nil {
		t.Fatalf("decode posted body: %v", err)
	}
	if posted["seed"] != float64(42) {
		t.Fatalf("posted seed = %v, want 42", posted["seed"])
	}
	if _, ok := posted["hotkeys"].(map[string]any); !ok {
		t.Fatalf("posted hotkeys = %#v, want object", posted["hotkeys"])
	}
	if _, ok := posted["volume"]; ok {
		t.Fatalf("posted undefined volume: %v", posted)
	}
	if reqs[1].contentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", reqs[1].contentType)
	}
}

func TestClient_SaveConfigExample(t *testing.T) {
	t.Parallel()

	server, seen := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	env, err := c.SaveConfig(context.Background(), Settings{
		TTSEngine:   "higgs_audio",
		Voice:       "v1",
		Temperature: Float(0.5),
		Volume:      Float(0.8),
		Speed:       Float(1.0),
	})
	if err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}
	if !env.OK() {
		t.Fatalf("envelope = %#v, want success", env)
	}

	req := (*seen)[0]
	if req.method != http.MethodPost || req.path != "/api/config" {
		t.Fatalf("request = %s %s, want POST /api/config", req.method, req.path)
	}
	var posted map[string]any
	if err := json.Unmarshal([]byte(req.body), &posted); err != nil {
		t.Fatalf("decode posted body: %v", err)
	}
	want := map[string]any{"tts_engine": "higgs_audio", "voice": "v1", "temperature": 0.5, "volume": 0.8, "speed": 1.0}
	if len(posted) != len(want) {
		t.Fatalf("posted = %v, want %v", posted, want)
	}
	for k, v := range want {
		if posted[k] != v {
			t.Fatalf("posted[%s] = %v, want %v", k, posted[k], v)
		}
	}
}

func TestClient_ActDecodesErrorEnvelope(t *testing.T) {
	t.Parallel()

	server, seen := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"no audio playing"}`))
	})
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := c.Act(context.Background(), ActionRequest{Action: ActionStop})
	if err != nil {
		t.Fatalf("Act returned error: %v", err)
	}
	if resp.OK() || resp.Message != "no audio playing" {
		t.Fatalf("response = %#v, want error with message", resp)
	}
	req := (*seen)[0]
	if req.path != "/api/tts" || strings.TrimSpace(req.body) != `{"action":"stop"}` {
		t.Fatalf("request = %s %q, want /api/tts {\"action\":\"stop\"}", req.path, req.body)
	}
	if !strings.HasPrefix(req.userAgent, "readaloud-panel/") {
		t.Fatalf("User-Agent = %q, want readaloud-panel/*", req.userAgent)
	}
	if req.requestID == "" {
		t.Fatalf("X-Request-ID missing")
	}
}

func TestClient_ActRequiresAction(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Act(context.Background(), ActionRequest{}); err == nil {
		t.Fatalf("Act returned nil error, want error")
	}
}

func TestClient_StatusDecodesServiceRecord(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","higgs_audio":true,"higgs_service":{"running":true,"ready":false}}`))
	})
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	status, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if !status.HiggsAudio {
		t.Fatalf("HiggsAudio = false, want true")
	}
	if status.Service == nil || status.Service.State() != ServiceLoading {
		t.Fatalf("service = %#v, want loading", status.Service)
	}
}

func TestClient_StatusNotSuccess(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	})
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Status(context.Background())
	if !errors.Is(err, ErrNotSuccess) {
		t.Fatalf("Status error = %v, want ErrNotSuccess", err)
	}
}

func TestClient_ServiceEndpoints(t *testing.T) {
	t.Parallel()

	server, seen := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/service/start":
			_, _ = w.Write([]byte(`{"status":"success","message":"starting"}`))
		case "/api/service/stop":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"status":"error","message":"not running"}`))
		default:
			http.NotFound(w, r)
		}
	})
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	env, err := c.StartService(context.Background())
	if err != nil || !env.OK() {
		t.Fatalf("StartService = %#v, %v; want success", env, err)
	}
	env, err = c.StopService(context.Background())
	if err != nil || env.OK() || env.Message != "not running" {
		t.Fatalf("StopService = %#v, %v; want error envelope", env, err)
	}
	for _, req := range *seen {
		if req.method != http.MethodPost || req.body != "" {
			t.Fatalf("service request = %s body %q, want bodiless POST", req.method, req.body)
		}
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/config":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "/api/tts":
			http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Status(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Status error = %v, want decode response error", err)
	}

	_, err = c.GetConfig(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("GetConfig error = %v, want status 500 error", err)
	}

	_, err = c.Act(context.Background(), ActionRequest{Action: ActionTest, Text: "hi"})
	if err == nil || !strings.Contains(err.Error(), "returned status 502") {
		t.Fatalf("Act error = %v, want status 502 error", err)
	}
}

func TestClient_TimeoutOption(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.GetConfig(context.Background()); err == nil {
		t.Fatalf("GetConfig returned nil error, want timeout")
	}
}
