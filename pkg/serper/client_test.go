package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req NewsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "반도체 수출", req.Query)

		_ = json.NewEncoder(w).Encode(NewsResponse{News: []NewsItem{
			{Title: "반도체 수출 증가", Link: "https://news.example.com/1", Source: "연합뉴스", Date: "3시간 전"},
		}})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.SearchNews(context.Background(), NewsRequest{Query: "반도체 수출", Num: 10})
	require.NoError(t, err)
	require.Len(t, resp.News, 1)
	assert.Equal(t, "반도체 수출 증가", resp.News[0].Title)
	assert.Equal(t, "3시간 전", resp.News[0].Date)
}

func TestSearchNews_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.SearchNews(context.Background(), NewsRequest{Query: "q"})
	assert.Error(t, err)
}
