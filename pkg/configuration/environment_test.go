package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := DatabaseOptions{
		Name:     "kars",
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "secret",
	}
	require.Equal(t,
		"host=db.internal port=5433 user=svc dbname=kars password=secret sslmode=disable",
		opts.ConnectionString(),
	)
}

func TestRateLimitOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    RateLimitOptions
		wantErr bool
	}{
		{name: "memory", opts: RateLimitOptions{Storage: "memory", GlobalRPS: 100}},
		{name: "redis without url", opts: RateLimitOptions{Storage: "redis", GlobalRPS: 100}, wantErr: true},
		{name: "redis with url", opts: RateLimitOptions{Storage: "redis", RedisURL: "redis://localhost:6379", GlobalRPS: 100}},
		{name: "negative rps", opts: RateLimitOptions{Storage: "memory", GlobalRPS: -1}, wantErr: true},
		{name: "unknown storage", opts: RateLimitOptions{Storage: "etcd", GlobalRPS: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLogrusLogLevel(t *testing.T) {
	c := &Configuration{}
	levels := map[string]logrus.Level{
		"silent": logrus.PanicLevel,
		"error":  logrus.ErrorLevel,
		"warn":   logrus.WarnLevel,
		"info":   logrus.InfoLevel,
		"debug":  logrus.DebugLevel,
		"bogus":  logrus.ErrorLevel,
		"":       logrus.ErrorLevel,
	}
	for in, want := range levels {
		c.LogLevel = in
		require.Equal(t, want, c.LogrusLogLevel(), "level %q", in)
	}
}

func TestScheme(t *testing.T) {
	c := &Configuration{GoAppEnvironment: "development"}
	require.Equal(t, "http", c.Scheme())
	c.GoAppEnvironment = Production
	require.Equal(t, "https", c.Scheme())
}
