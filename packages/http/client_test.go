package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
)

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/users/1", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), &request.Request{
		Method: "GET",
		URI:    server.URL + "/users/1",
		Merged: headers.Merged{"Authorization": "Bearer abc"},
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.True(t, resp.IsJSON())
	assert.True(t, resp.IsSuccess())
	assert.Contains(t, resp.BodyString(), "hello")
}

func TestClient_DoWithBodyAndParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kuiper", body["name"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), &request.Request{
		Method: "POST",
		URI:    server.URL,
		Params: map[string]string{"page": "2"},
		Body:   json.RawMessage(`{"name": "kuiper"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestClient_ContentTypeNotOverridden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), &request.Request{
		Method: "POST",
		URI:    server.URL,
		Merged: headers.Merged{"Content-Type": "application/vnd.api+json"},
		Body:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	_, err := client.Do(context.Background(), &request.Request{Method: "GET", URI: server.URL})

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestClient_ConnectionRefused(t *testing.T) {
	client := NewClient(WithTimeout(time.Second))
	_, err := client.Do(context.Background(), &request.Request{
		Method: "GET",
		URI:    "http://127.0.0.1:1", // nothing listens here
	})

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestClient_FollowRedirects(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	followed := NewClient(WithFollowRedirects(true))
	resp, err := followed.Do(context.Background(), &request.Request{Method: "GET", URI: server.URL + "/start"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	stopped := NewClient(WithFollowRedirects(false))
	resp, err = stopped.Do(context.Background(), &request.Request{Method: "GET", URI: server.URL + "/start"})
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		req     *request.Request
		want    string
		wantErr bool
	}{
		{
			name: "no params",
			req:  &request.Request{URI: "http://example.com/users"},
			want: "http://example.com/users",
		},
		{
			name: "params encoded",
			req:  &request.Request{URI: "http://example.com/users", Params: map[string]string{"q": "a b"}},
			want: "http://example.com/users?q=a+b",
		},
		{
			name:    "unsupported scheme",
			req:     &request.Request{URI: "ftp://example.com"},
			wantErr: true,
		},
		{
			name:    "missing host",
			req:     &request.Request{URI: "http://"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
