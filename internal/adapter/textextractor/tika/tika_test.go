package tika

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("  Jane Doe\nSenior Engineer\x00 with ten years of experience  "))
	}))
	defer srv.Close()

	c := New(srv.URL)
	text, err := c.Extract(context.Background(), "resume.pdf", []byte("%PDF-1.7 fake"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer with ten years of experience", text)
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unprocessable", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Extract(context.Background(), "resume.pdf", nil)
	assert.Error(t, err)
}

func TestExtract_EmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("   \n\t  "))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Extract(context.Background(), "scan.pdf", nil)
	assert.Error(t, err, "whitespace-only extraction must be reported as a failure")
}
