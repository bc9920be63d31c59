package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
)

// ApiMock is an HTTP server standing in for the email provider. It records
// every request body and answers with queued statuses, falling back to 200.
type ApiMock struct {
	mu               sync.Mutex
	server           *httptest.Server
	requestsReceived map[string][]map[string]any
	responseStatus   map[string][]int
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived: map[string][]map[string]any{},
		responseStatus:   map[string][]int{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	status := http.StatusOK
	if queued := a.responseStatus[key]; len(queued) > 0 {
		status = queued[0]
		a.responseStatus[key] = queued[1:]
	}
	if status < http.StatusBadRequest {
		a.requestsReceived[key] = append(a.requestsReceived[key], request)
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= http.StatusBadRequest {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"statusCode": status,
			"name":       "mock_error",
			"message":    http.StatusText(status),
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": uuid.NewString()})
}

// FailNext makes the next count requests to method+path answer with status.
func (a *ApiMock) FailNext(method, path string, status, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < count; i++ {
		a.responseStatus[method+path] = append(a.responseStatus[method+path], status)
	}
}

// GetRequests returns the bodies of the successful requests to method+path.
func (a *ApiMock) GetRequests(method, path string) []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]map[string]any, len(a.requestsReceived[method+path]))
	copy(out, a.requestsReceived[method+path])
	return out
}

func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestsReceived = map[string][]map[string]any{}
	a.responseStatus = map[string][]int{}
}
