package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherConfig(t *testing.T) {
	config := FetcherConfig{
		BaseURL:        "https://peraturan.example.id",
		MaxDepth:       3,
		RateLimit:      1.0,
		IgnorePatterns: []string{"/login"},
		Timeout:        10 * time.Second,
	}

	f, err := NewWithConfig(config)
	require.NoError(t, err)
	assert.Equal(t, config.BaseURL, f.config.BaseURL)
	assert.Equal(t, config.MaxDepth, f.config.MaxDepth)
}

func TestShouldFetch(t *testing.T) {
	f, err := NewWithConfig(FetcherConfig{
		BaseURL:        "https://peraturan.example.id",
		IgnorePatterns: []string{"/login", "unduh"},
	})
	require.NoError(t, err)

	tests := []struct {
		url      string
		expected bool
	}{
		{"https://peraturan.example.id/uu/2003/13", true},
		{"https://peraturan.example.id/login", false},
		{"https://peraturan.example.id/unduh/file.pdf", false},
		{"https://other-domain.com/uu/2003/13", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.shouldFetch(tt.url))
		})
	}
}

func TestFetchWithMockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<html>
				<head><title>UU Nomor 13 Tahun 2003</title></head>
				<body>
					<main>
						<h1>Ketenagakerjaan</h1>
						<p>Pasal 1 Dalam undang-undang ini yang dimaksud dengan ketenagakerjaan adalah segala hal yang berhubungan dengan tenaga kerja.</p>
						<a href="/pasal-2.html">Pasal 2</a>
					</main>
				</body>
			</html>
		`))
	}))
	defer server.Close()

	f, err := NewWithConfig(FetcherConfig{
		BaseURL:   server.URL,
		MaxDepth:  1,
		RateLimit: 10,
	})
	require.NoError(t, err)

	pages, err := f.Fetch(server.URL)
	require.NoError(t, err)
	require.NotEmpty(t, pages)

	page := pages[0]
	assert.Equal(t, server.URL, page.URL)
	assert.Equal(t, "UU Nomor 13 Tahun 2003", page.Title)
	assert.Contains(t, page.Text, "Ketenagakerjaan")
	assert.Contains(t, page.Text, "tenaga kerja")
}
