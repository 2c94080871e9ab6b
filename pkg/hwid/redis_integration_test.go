//go:build integration

package hwid

import (
	"context"
	"testing"

	"github.com/netforge-os/confgen/internal/testutil"
)

func TestRedisStore_Load(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, DefaultRedisDB)
	testutil.SeedRedis(t, addr, DefaultRedisDB, map[string]map[string]map[string]string{
		RedisTable: {
			"eth1": {"hw_id": "00:0C:29:AA:BB:02"},
			"eth0": {"hw_id": "00:0c:29:aa:bb:01"},
		},
		"PORT": {
			"Ethernet0": {"mtu": "9100"},
		},
	})

	store := NewRedisStore(addr, DefaultRedisDB)
	defer store.Close()

	ctx := context.Background()
	if err := store.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	table, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := table.Bindings()
	if len(got) != 2 || got[0].Name != "eth0" || got[1].Name != "eth1" {
		t.Fatalf("Bindings() = %+v", got)
	}
	if b, ok := table.Lookup("00:0c:29:aa:bb:02"); !ok || b.Name != "eth1" {
		t.Errorf("Lookup = (%+v, %v)", b, ok)
	}
}

func TestRedisStore_SaveDelete(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, DefaultRedisDB)

	store := NewRedisStore(addr, DefaultRedisDB)
	defer store.Close()
	ctx := context.Background()

	table, err := NewTable(testBindings())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTable(ctx, table); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := store.Save(ctx, Binding{Name: "eth5", Fingerprint: "00-0C-29-AA-BB-05"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entry := testutil.ReadEntry(t, addr, DefaultRedisDB, RedisTable, "eth5")
	if entry["hw_id"] != "00:0c:29:aa:bb:05" {
		t.Errorf("hw_id = %q, want normalized address", entry["hw_id"])
	}

	if err := store.Delete(ctx, "wlan0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 3 {
		t.Errorf("Len() = %d, want 3", loaded.Len())
	}
	if _, ok := loaded.LookupName("wlan0"); ok {
		t.Error("wlan0 should be deleted")
	}
}

func TestSource_LoadRedis(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, DefaultRedisDB)
	testutil.SeedRedis(t, addr, DefaultRedisDB, map[string]map[string]map[string]string{
		RedisTable: {"eth0": {"hw_id": "00:0c:29:aa:bb:01"}},
	})

	table, err := Source{Path: "/nonexistent", RedisAddr: addr, RedisDB: DefaultRedisDB}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b, ok := table.LookupName("eth0"); !ok || b.Fingerprint != "00:0c:29:aa:bb:01" {
		t.Errorf("LookupName(eth0) = %+v, %v", b, ok)
	}
}

func TestSource_LoadRedisDBZero(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, 0)
	testutil.FlushDB(t, addr, DefaultRedisDB)
	testutil.SeedRedis(t, addr, 0, map[string]map[string]map[string]string{
		RedisTable: {"eth0": {"hw_id": "00:0c:29:aa:bb:01"}},
	})
	testutil.SeedRedis(t, addr, DefaultRedisDB, map[string]map[string]map[string]string{
		RedisTable: {"eth9": {"hw_id": "00:0c:29:aa:bb:09"}},
	})
	t.Cleanup(func() { testutil.FlushDB(t, addr, 0) })

	table, err := Source{RedisAddr: addr, RedisDB: 0}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := table.LookupName("eth0"); !ok || table.Len() != 1 {
		t.Errorf("Load() from DB 0 = %+v", table.Bindings())
	}
}

func TestRedisStore_SaveTableRebinds(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, DefaultRedisDB)
	testutil.SeedRedis(t, addr, DefaultRedisDB, map[string]map[string]map[string]string{
		RedisTable: {
			"eth1": {"hw_id": "00:0c:29:aa:bb:01"},
			"eth3": {"hw_id": "00:0c:29:aa:bb:03"},
		},
	})

	store := NewRedisStore(addr, DefaultRedisDB)
	defer store.Close()
	ctx := context.Background()

	// The address bound to eth1 moves to eth2; eth3 is no longer listed.
	table, err := NewTable([]Binding{{Name: "eth2", Fingerprint: "00:0c:29:aa:bb:01"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTable(ctx, table); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after rebinding: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1: %+v", loaded.Len(), loaded.Bindings())
	}
	if b, ok := loaded.Lookup("00:0c:29:aa:bb:01"); !ok || b.Name != "eth2" {
		t.Errorf("Lookup = (%+v, %v), want eth2", b, ok)
	}
}
