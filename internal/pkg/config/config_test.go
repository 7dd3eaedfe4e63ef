package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	require.Equal(t, StoreMongo, cfg.StoreDriver)
	require.Equal(t, "sweetshop", cfg.Mongo.Database)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 10, cfg.RateLimit.AuthRequests)
	require.Equal(t, time.Minute, cfg.RateLimit.AuthWindow)
	require.Empty(t, cfg.RateLimit.TrustedProxies)
	require.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
}

func TestLoad_RejectsUnknownStoreDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "postgres",
	}))
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":             "s3cret",
		"JWT_EXPIRY":             "15m",
		"STORE_DRIVER":           "memory",
		"ENV":                    "production",
		"RATE_LIMIT_AUTH_WINDOW": "30s",
	}))
	require.NoError(t, err)

	require.Equal(t, 15*time.Minute, cfg.JWTExpiry)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, 30*time.Second, cfg.RateLimit.AuthWindow)
	require.False(t, cfg.IsDevelopment())
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.0/24",
	}))
	require.NoError(t, err)

	nets, err := cfg.RateLimit.TrustedProxyNets()
	require.NoError(t, err)
	require.Len(t, nets, 2)
	require.Equal(t, "10.0.0.0/8", nets[0].String())
	require.Equal(t, "192.168.1.0/24", nets[1].String())

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "10.0.0.1",
	}))
	require.Error(t, err)
}
