package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/evently/internal/cache"
	"github.com/rohits-web03/evently/internal/config"
	"github.com/rohits-web03/evently/internal/logging"
)

func TestRun_RefusesDefaultSecretInProduction(t *testing.T) {
	cfg := config.Config{Environment: "production", JWTSecret: config.DefaultJWTSecret}

	err := run(cfg, logging.Discard())
	assert.ErrorIs(t, err, config.ErrInsecureJWTSecret)
}

func TestBuildUserCache_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{RedisURL: "redis://" + mr.Addr(), UserCacheTTL: time.Minute}

	c, closeCache := buildUserCache(context.Background(), cfg, logging.Discard())
	defer closeCache()
	assert.IsType(t, &cache.RedisUserCache{}, c)
}

func TestBuildUserCache_UnreachableRedisFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg := config.Config{RedisURL: "redis://" + addr, UserCacheTTL: time.Minute}

	c, closeCache := buildUserCache(ctx, cfg, logging.New(&buf, "info", false))
	require.NotNil(t, closeCache)
	closeCache()
	assert.Equal(t, cache.Noop{}, c)
	assert.Contains(t, buf.String(), "redis unavailable")
}

func TestBuildUserCache_Unset(t *testing.T) {
	c, closeCache := buildUserCache(context.Background(), config.Config{}, logging.Discard())
	closeCache()
	assert.Equal(t, cache.Noop{}, c)
}
