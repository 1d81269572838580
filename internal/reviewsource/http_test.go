package reviewsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestHTTP_FetchDecodesBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req fetchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "https://example.com/p", req.URL)

		resp := fetchResponse{
			Reviews:         []models.Review{{ReviewID: "r1", Rating: 5, Text: "great"}},
			ProductMetadata: models.ProductMetadata{ProductName: "Widget"},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	src := NewHTTP(server.URL, 5*time.Second)
	batch, err := src.Fetch(context.Background(), "https://example.com/p", 10)
	require.NoError(t, err)
	require.Len(t, batch.Reviews, 1)
	require.Equal(t, "Widget", batch.Metadata.ProductName)
}

func TestHTTP_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewHTTP(server.URL, 5*time.Second)
	_, err := src.Fetch(context.Background(), "https://example.com/p", 10)
	require.Error(t, err)
}
