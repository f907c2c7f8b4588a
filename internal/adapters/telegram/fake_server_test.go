package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

type recordedRequest struct {
	Method string
	JSON   map[string]any
	Fields map[string]string
	Files  map[string][]byte
}

// fakeBotAPI answers Bot API calls with canned results and records them.
type fakeBotAPI struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string][]string
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()

	f := &fakeBotAPI{t: t, responses: map[string][]string{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// Respond queues a raw JSON body for the next call to method. Without a
// queued body a method answers {"ok":true,"result":true}.
func (f *fakeBotAPI) Respond(method, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = append(f.responses[method], body)
}

func (f *fakeBotAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeBotAPI) RequestsFor(method string) []recordedRequest {
	var out []recordedRequest
	for _, r := range f.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeBotAPI) client(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		APIURL:            f.server.URL,
		Token:             testToken,
		PollTimeout:       time.Second,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return client
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	prefix := "/bot" + testToken + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	rec := recordedRequest{Method: strings.TrimPrefix(r.URL.Path, prefix)}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.Fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			rec.Fields[k] = v[0]
		}
		rec.Files = map[string][]byte{}
		for k, headers := range r.MultipartForm.File {
			file, err := headers[0].Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(file)
			_ = file.Close()
			rec.Files[k] = data
			rec.Fields[k+".filename"] = headers[0].Filename
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&rec.JSON); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	body := `{"ok":true,"result":true}`
	if queued := f.responses[rec.Method]; len(queued) > 0 {
		body = queued[0]
		f.responses[rec.Method] = queued[1:]
	}
	f.mu.Unlock()

	var env envelope
	_ = json.Unmarshal([]byte(body), &env)
	w.Header().Set("Content-Type", "application/json")
	if !env.OK {
		w.WriteHeader(http.StatusBadRequest)
	}
	_, _ = io.WriteString(w, body)
}
