package hwid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/netforge-os/confgen/pkg/util"
)

func TestSource_String(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Source{Path: "/etc/confgen/hwid.yaml"}, "file /etc/confgen/hwid.yaml"},
		{Source{Path: "x", Config: "/etc/confgen/config.yaml"}, "config /etc/confgen/config.yaml"},
		{Source{Config: "c", RedisAddr: "10.0.0.1:6379"}, "redis://10.0.0.1:6379"},
		{Source{RedisAddr: "r", SSHHost: "router1"}, "redis via ssh://router1"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSource_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hwid.yaml")
	doc := "bindings:\n  - name: eth0\n    hw_id: 00:0c:29:aa:bb:01\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := Source{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b, ok := table.Lookup("00:0c:29:aa:bb:01"); !ok || b.Name != "eth0" {
		t.Errorf("Lookup() = %+v, %v", b, ok)
	}
}

func TestSource_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
interfaces:
  ethernet:
    eth1:
      hw_id: 00:0c:29:aa:bb:02
    eth0:
      hw_id: 00:0c:29:aa:bb:01
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := Source{Path: "/nonexistent", Config: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestSource_LoadConfigMissing(t *testing.T) {
	_, err := Source{Config: filepath.Join(t.TempDir(), "missing.yaml")}.Load(context.Background())
	if err == nil {
		t.Error("Load() should fail when the configuration document is missing")
	}
}

func TestSource_WithStoreRequiresRedis(t *testing.T) {
	err := Source{Path: "x"}.WithStore(context.Background(), func(*RedisStore) error { return nil })
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("WithStore() error = %v, want ErrInvalidConfig", err)
	}
}
