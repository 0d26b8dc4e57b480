package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadToPresignedURL(t *testing.T) {
	file := []byte("RIFF....WAVE")

	t.Run("success", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod, gotQuery string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotQuery = r.URL.RawQuery
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.Client(), ts.URL+"/bucket/key?X-Amz-Signature=abc", "audio/wav", file)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "audio/wav", gotCT)
		assert.Equal(t, "X-Amz-Signature=abc", gotQuery)
		assert.Equal(t, file, gotBody)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, "SignatureDoesNotMatch")
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), nil, ts.URL, "audio/wav", file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
	})

	t.Run("bad url", func(t *testing.T) {
		err := UploadToPresignedURL(context.Background(), nil, "://bad", "audio/wav", file)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, UploadToPresignedURL(ctx, nil, ts.URL, "audio/wav", file))
	})
}
