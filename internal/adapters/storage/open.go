package storage

import (
	"fmt"
	"log"
	"path/filepath"

	"eventadmin/internal/domain"
)

// Storage drivers accepted by Open.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBolt   = "bolt"
)

// BoltFileName is the database file created under Config.Path by the bolt driver.
const BoltFileName = "eventadmin.db"

// Config holds configuration for opening a LocalStorage.
type Config struct {
	Driver string
	Path   string
	Origin string
	Quota  int
}

// Open returns the LocalStorage selected by config.Driver and a function that releases it.
// Driver "none" returns a nil storage, which keeps the event store memory-only.
func Open(config Config) (domain.LocalStorage, func() error, error) {
	noop := func() error { return nil }
	switch config.Driver {
	case DriverNone:
		log.Printf("[STORAGE] Persistent storage disabled, events are kept in memory only")
		return nil, noop, nil
	case DriverMemory:
		return NewMemoryStorage(config.Quota), noop, nil
	case DriverFile:
		fs, err := NewFileStorage(config.Path, config.Origin)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[STORAGE] Using file storage at %s", fs.Path())
		return fs, noop, nil
	case DriverBolt, "":
		dir, err := expandHome(config.Path)
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, BoltFileName)
		bs, err := NewBoltStorage(path, config.Origin)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[STORAGE] Using bolt storage at %s (origin %q)", path, config.Origin)
		return bs, bs.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}
