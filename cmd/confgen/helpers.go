package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/netforge-os/confgen/pkg/audit"
	"github.com/netforge-os/confgen/pkg/util"
)

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

// recordAudit appends event to the audit log. Failures are logged and
// otherwise ignored.
func recordAudit(path string, event *audit.Event) {
	logger, err := audit.NewFileLogger(path, audit.DefaultRotation)
	if err != nil {
		util.Warnf("Could not open audit log: %v", err)
		return
	}
	defer logger.Close()
	if err := logger.Log(event); err != nil {
		util.Warnf("Could not write audit event: %v", err)
	}
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
