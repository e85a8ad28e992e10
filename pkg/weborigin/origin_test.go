package weborigin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	cases := map[string]string{
		"https://app.example/cb":          "https://app.example",
		"https://App.Example:443/cb?x=1":  "https://app.example",
		"HTTP://localhost:8080/callback":  "http://localhost:8080",
		"http://127.0.0.1:80/":            "http://127.0.0.1",
		"https://[::1]:4943/cb":           "https://[::1]:4943",
		"https://[::1]/cb":                "https://[::1]",
		"https://user:pw@app.example/cb":  "https://app.example",
		"https://app.example/cb#fragment": "https://app.example",
		"https://identity.example":        "https://identity.example",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := Of(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, bad := range []string{"myapp://callback", "/relative", "mailto:someone@example.com", "https:///nohost"} {
		t.Run(bad, func(t *testing.T) {
			_, err := Of(bad)
			assert.ErrorIs(t, err, ErrNoWebOrigin)
		})
	}

	t.Run("unparseable address", func(t *testing.T) {
		_, err := Of("https://bad host/")
		assert.Error(t, err)
	})
}

func TestSame(t *testing.T) {
	assert.True(t, Same("https://app.example/a", "https://APP.example:443/b"))
	assert.False(t, Same("https://app.example", "http://app.example"))
	assert.False(t, Same("myapp://x", "myapp://x"))
}
