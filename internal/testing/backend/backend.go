// Package backend is an in-process stand-in for the Wall of Fame API,
// used by tests to observe exactly what the client sends.
package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Request is what the backend saw of one incoming request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	UserAgent     string
	RequestID     string
	Body          []byte
	Form          map[string]string
	Files         map[string]string // field -> file name
	FileContents  map[string][]byte
}

// Responder produces the status and body for a route. A nil body writes
// nothing.
type Responder func(r Request) (int, []byte)

// Backend is a fake API server.
type Backend struct {
	*httptest.Server

	lock       sync.Mutex
	requests   []Request
	responders map[string]Responder
}

// New starts a backend and closes it when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()

	gin.SetMode(gin.TestMode)

	b := &Backend{
		responders: make(map[string]Responder),
	}

	router := gin.New()
	router.Any("/*path", b.handle)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)

	return b
}

// On registers a responder for method and path, e.g. On("GET", "/api/wins").
func (b *Backend) On(method, path string, responder Responder) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.responders[method+" "+path] = responder
}

// Respond registers a fixed status and JSON body.
func (b *Backend) Respond(method, path string, status int, body any) {
	var encoded []byte
	switch v := body.(type) {
	case nil:
	case string:
		encoded = []byte(v)
	case []byte:
		encoded = v
	default:
		encoded, _ = json.Marshal(v)
	}
	b.On(method, path, func(Request) (int, []byte) {
		return status, encoded
	})
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestCount returns how many requests were received.
func (b *Backend) RequestCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.requests)
}

// LastRequest returns the most recent request, or false if none arrived.
func (b *Backend) LastRequest() (Request, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if len(b.requests) == 0 {
		return Request{}, false
	}
	return b.requests[len(b.requests)-1], true
}

func (b *Backend) handle(c *gin.Context) {
	req := Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.ContentType(),
		UserAgent:     c.GetHeader("User-Agent"),
		RequestID:     c.GetHeader("X-Request-ID"),
	}

	if strings.HasPrefix(req.ContentType, "multipart/") {
		readMultipart(c, &req)
	} else {
		req.Body, _ = io.ReadAll(c.Request.Body)
	}

	b.lock.Lock()
	b.requests = append(b.requests, req)
	responder, ok := b.responders[req.Method+" "+req.Path]
	b.lock.Unlock()

	if !ok {
		c.Data(http.StatusNotFound, "application/json", []byte(`{"error":"Not found"}`))
		return
	}

	status, body := responder(req)
	if body == nil {
		c.Status(status)
		return
	}
	c.Data(status, "application/json", body)
}

func readMultipart(c *gin.Context, req *Request) {
	form, err := c.MultipartForm()
	if err != nil {
		return
	}

	req.Form = make(map[string]string)
	for key, values := range form.Value {
		if len(values) > 0 {
			req.Form[key] = values[0]
		}
	}

	req.Files = make(map[string]string)
	req.FileContents = make(map[string][]byte)
	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		req.Files[key] = headers[0].Filename
		if f, err := headers[0].Open(); err == nil {
			req.FileContents[key], _ = io.ReadAll(f)
			f.Close()
		}
	}
}
