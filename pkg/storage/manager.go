package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()

	// The local disk is always available.
	disks["local"] = newLocalDisk()

	// S3 only when a bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom Disk, used by tests to swap in a stub.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// SetDefault switches the default disk, used by tests.
func SetDefault(name string) {
	managerMu.Lock()
	defaultDisk = name
	managerMu.Unlock()
}

// LocalRoot returns the directory backing the local disk so the server can
// mount it as a file server.
func LocalRoot() string {
	if d, ok := Use("local").(*localDisk); ok {
		return d.Root()
	}
	return ""
}

func defaultD() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// Default-disk helpers.

func Put(path string, content []byte) error    { return defaultD().Put(path, content) }
func PutStream(path string, r io.Reader) error { return defaultD().PutStream(path, r) }
func Get(path string) ([]byte, error)          { return defaultD().Get(path) }
func GetStream(path string) (io.ReadCloser, error) {
	return defaultD().GetStream(path)
}
func Exists(path string) bool   { return defaultD().Exists(path) }
func Delete(path string) error  { return defaultD().Delete(path) }
func URL(path string) string    { return defaultD().URL(path) }
