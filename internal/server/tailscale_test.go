// ABOUTME: Tests for tailnet listener settings resolution
// ABOUTME: Covers state dir defaults and the auth key environment fallback

package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moullakill/bookos-dream-launcher/internal/config"
)

func TestResolveTailscaleStateDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "bookos", "tailscale"), resolveTailscaleStateDir(""))
	assert.Equal(t, "/srv/ts", resolveTailscaleStateDir("/srv/ts"))
}

func TestResolveTailscaleAuthKey(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")
	_, err := resolveTailscaleAuthKey("")
	assert.ErrorContains(t, err, "TS_AUTHKEY")

	key, err := resolveTailscaleAuthKey("tskey-config")
	require.NoError(t, err)
	assert.Equal(t, "tskey-config", key)

	t.Setenv("TS_AUTHKEY", "tskey-env")
	key, err = resolveTailscaleAuthKey("")
	require.NoError(t, err)
	assert.Equal(t, "tskey-env", key)
}

func TestRun_TailscaleWithoutAuthKeyFails(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")
	env := newTestEnv(t, func(c *config.ServerConfig) {
		c.Tailscale = config.TailscaleConfig{Enabled: true, Hostname: "bookshelf", StateDir: t.TempDir()}
	})

	err := env.srv.Run(context.Background())
	assert.ErrorContains(t, err, "tailscale auth key required")
	assert.Nil(t, env.srv.tsnet)
}
