package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/netforge-os/confgen/pkg/audit"
	"github.com/netforge-os/confgen/pkg/hwid"
	"github.com/netforge-os/confgen/pkg/netname"
)

func setupDevice(t *testing.T, root, name, addr string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, "device", "driver"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "address"), []byte(addr+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "type"), []byte("1\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func testOptions(t *testing.T) *options {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "sys")
	setupDevice(t, root, "enp3s0", "00:0c:29:aa:bb:01")
	setupDevice(t, root, "enp4s0", "00:0c:29:aa:bb:99")
	setupDevice(t, root, "eth3", "00:0c:29:aa:bb:01")

	table, err := hwid.NewTable([]hwid.Binding{
		{Name: "eth0", Fingerprint: "00:0c:29:aa:bb:01"},
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "hwid.yaml")
	if err := hwid.WriteFile(path, table); err != nil {
		t.Fatal(err)
	}

	return &options{
		src:       hwid.Source{Path: path},
		sysfsRoot: root,
		auditPath: filepath.Join(dir, "audit.log"),
	}
}

func clearUdevEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INTERFACE", "")
	for _, key := range predefinedEnv {
		t.Setenv(key, "")
	}
}

func TestRun(t *testing.T) {
	clearUdevEnv(t)
	tests := []struct {
		name    string
		args    []string
		current string
		want    string
	}{
		{"table match", []string{"enp3s0"}, "", "eth0\n"},
		{"no match", []string{"enp4s0"}, "", ""},
		{"predefined name", []string{"enp4s0", "eth7"}, "", "eth7\n"},
		{"current equals kernel name", []string{"enp3s0"}, "enp3s0", "eth0\n"},
		{"already named", []string{"enp3s0"}, "lan0", ""},
		{"kernel eth name still uses table", []string{"eth3"}, "eth3", "eth0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			opts.current = tt.current

			var out bytes.Buffer
			if err := run(context.Background(), opts, tt.args, &out); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("stdout = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

// The rule from the package doc: PROGRAM="netname -current-name $name %k".
// udev passes the kernel name for $name when no earlier rule renamed the
// device.
func TestRun_UdevRule(t *testing.T) {
	clearUdevEnv(t)
	t.Setenv("HOME", t.TempDir())

	base := testOptions(t)
	opts, args, err := parseFlags([]string{"-current-name", "eth3", "eth3"})
	if err != nil {
		t.Fatal(err)
	}
	opts.src = base.src
	opts.sysfsRoot = base.sysfsRoot
	opts.auditPath = base.auditPath

	var out bytes.Buffer
	if err := run(context.Background(), opts, args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out.String() != "eth0\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "eth0\n")
	}
}

func TestRun_PredefinedNameFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"ID_NET_NAME", map[string]string{"ID_NET_NAME": "eth5"}, []string{"enp4s0"}, "eth5\n"},
		{"CONFGEN_IFNAME wins", map[string]string{"ID_NET_NAME": "eth5", "CONFGEN_IFNAME": "eth6"}, []string{"enp4s0"}, "eth6\n"},
		{"argument wins", map[string]string{"CONFGEN_IFNAME": "eth6"}, []string{"enp4s0", "eth7"}, "eth7\n"},
		{"non eth property ignored", map[string]string{"ID_NET_NAME": "enp4s0"}, []string{"enp4s0"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearUdevEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := testOptions(t)

			var out bytes.Buffer
			if err := run(context.Background(), opts, tt.args, &out); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("stdout = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_AuditEvent(t *testing.T) {
	clearUdevEnv(t)
	opts := testOptions(t)
	var out bytes.Buffer
	if err := run(context.Background(), opts, []string{"enp3s0"}, &out); err != nil {
		t.Fatal(err)
	}

	logger, err := audit.NewFileLogger(opts.auditPath, audit.RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()
	events, err := logger.Query(audit.Filter{Operation: audit.OpResolve})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(events))
	}
	e := events[0]
	if e.Interface != "enp3s0" || e.Name != "eth0" || e.Rule != string(netname.RuleDriverLinked) {
		t.Errorf("audit event = %+v", e)
	}
}

func TestRun_BrokenTableStillHonorsHint(t *testing.T) {
	clearUdevEnv(t)
	opts := testOptions(t)
	if err := os.WriteFile(opts.src.Path, []byte("bindings: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), opts, []string{"enp4s0", "eth3"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out.String() != "eth3\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "eth3\n")
	}
}

func TestRun_Errors(t *testing.T) {
	clearUdevEnv(t)
	opts := testOptions(t)

	if err := run(context.Background(), opts, nil, &bytes.Buffer{}); err == nil {
		t.Error("run() without kernel name should fail")
	}
	if err := run(context.Background(), opts, []string{"missing0"}, &bytes.Buffer{}); err == nil {
		t.Error("run() for a missing device should fail")
	}
}

func TestRun_KernelNameFromEnv(t *testing.T) {
	clearUdevEnv(t)
	t.Setenv("INTERFACE", "enp3s0")
	opts := testOptions(t)

	var out bytes.Buffer
	if err := run(context.Background(), opts, nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "eth0\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "eth0\n")
	}
}

func TestParseFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	opts, args, err := parseFlags([]string{"-hwid", "/tmp/t.toml", "-current-name", "eth1", "enp3s0", "eth2"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.src.Path != "/tmp/t.toml" || opts.current != "eth1" {
		t.Errorf("options = %+v", opts)
	}
	if len(args) != 2 || args[0] != "enp3s0" || args[1] != "eth2" {
		t.Errorf("args = %v", args)
	}
	if opts.src.RedisDB != hwid.DefaultRedisDB {
		t.Errorf("default RedisDB = %d, want %d", opts.src.RedisDB, hwid.DefaultRedisDB)
	}

	opts, _, err = parseFlags([]string{"-redis-db", "0", "enp3s0"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.src.RedisDB != 0 {
		t.Errorf("-redis-db 0 gave RedisDB = %d", opts.src.RedisDB)
	}
}
