package hwid

import (
	"context"
	"fmt"
	"os"

	"github.com/netforge-os/confgen/pkg/util"
)

// Source selects where the command line tools read the hardware-ID table
// from. Redis wins over Config, which wins over Path.
type Source struct {
	Path   string // YAML or TOML table file
	Config string // configuration document with interfaces.ethernet.*.hw_id

	RedisAddr string
	RedisDB   int // used as given; the tools default it to DefaultRedisDB

	// When SSHHost is set, Redis is reached through an SSH tunnel and
	// RedisAddr is ignored.
	SSHHost string
	SSHUser string
	SSHPass string
	// SSHKnownHosts is checked against the router's host key. Empty skips
	// verification.
	SSHKnownHosts string
}

// UsesRedis reports whether the table lives in Redis.
func (s Source) UsesRedis() bool {
	return s.RedisAddr != "" || s.SSHHost != ""
}

// String describes the source for log messages.
func (s Source) String() string {
	switch {
	case s.SSHHost != "":
		return "redis via ssh://" + s.SSHHost
	case s.RedisAddr != "":
		return "redis://" + s.RedisAddr
	case s.Config != "":
		return "config " + s.Config
	}
	return "file " + s.Path
}

// Load reads the table from the selected source.
func (s Source) Load(ctx context.Context) (*Table, error) {
	if s.UsesRedis() {
		var table *Table
		err := s.WithStore(ctx, func(store *RedisStore) error {
			var err error
			table, err = store.Load(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		return table, nil
	}

	if s.Config != "" {
		data, err := os.ReadFile(s.Config)
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
		table, err := FromConfig(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Config, err)
		}
		return table, nil
	}

	return LoadFile(s.Path)
}

// WithStore connects to Redis (through the SSH tunnel when configured), runs
// fn and closes everything afterwards.
func (s Source) WithStore(ctx context.Context, fn func(*RedisStore) error) error {
	if !s.UsesRedis() {
		return fmt.Errorf("%w: no redis address or ssh host given", util.ErrInvalidConfig)
	}

	addr := s.RedisAddr
	if s.SSHHost != "" {
		hostKey, err := HostKeyCallback(s.SSHKnownHosts)
		if err != nil {
			return err
		}
		tunnel, err := NewSSHTunnel(s.SSHHost, s.SSHUser, s.SSHPass, hostKey)
		if err != nil {
			return err
		}
		defer tunnel.Close()
		addr = tunnel.LocalAddr()
		util.Debugf("hwid: tunnel %s -> %s:%s", addr, s.SSHHost, redisRemoteAddr)
	}

	store := NewRedisStore(addr, s.RedisDB)
	defer store.Close()

	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return fn(store)
}
