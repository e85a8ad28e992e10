package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyOptions(opts []Option) Options {
	o := Options{MaxTimeToLive: DefaultMaxTimeToLive}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func TestOptionsFromAttributes(t *testing.T) {
	t.Run("absent attributes keep defaults", func(t *testing.T) {
		opts, err := OptionsFromAttributes(nil)
		require.NoError(t, err)

		assert.Equal(t, Options{MaxTimeToLive: DefaultMaxTimeToLive}, applyOptions(opts))
	})

	t.Run("all attributes", func(t *testing.T) {
		opts, err := OptionsFromAttributes(map[string]string{
			AttrMaxTimeToLive:    "3600000000000",
			AttrDerivationOrigin: "https://app.example",
			AttrWindowFeatures:   "width=500,height=600",
		})
		require.NoError(t, err)

		assert.Equal(t, Options{
			MaxTimeToLive:    time.Hour,
			DerivationOrigin: "https://app.example",
			WindowFeatures:   "width=500,height=600",
		}, applyOptions(opts))
	})

	for _, raw := range []string{"soon", "-5", "0"} {
		t.Run("rejects time to live "+raw, func(t *testing.T) {
			_, err := OptionsFromAttributes(map[string]string{AttrMaxTimeToLive: raw})
			assert.Error(t, err)
		})
	}
}
