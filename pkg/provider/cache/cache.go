// Package cache stores raw provider responses on disk.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mpapenbr/f1-sectorwalk/log"
)

const keyPrefix = "resp:"

var ErrNoDir = errors.New("cache directory must not be empty")

type (
	Store struct {
		db  *badger.DB
		dir string
		ttl time.Duration
		l   *log.Logger
	}
	Option func(s *Store)
)

// WithTTL lets entries expire after d (0: never)
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// Open opens (or creates) the cache in dir.
// The directory cannot be changed for the lifetime of the store.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, ErrNoDir
	}
	s := &Store{dir: dir, l: log.Default().Named("cache")}
	for _, opt := range opts {
		opt(s)
	}
	bOpts := badger.DefaultOptions(dir).WithLogger(badgerLogger{s.l.Sugar()})
	db, err := badger.Open(bOpts)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	s.db = db
	s.l.Debug("cache opened", log.String("dir", dir), log.Duration("ttl", s.ttl))
	return s, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the cached data for key. ok is false if there is no entry.
func (s *Store) Get(key string) (data []byte, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		ok = err == nil
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return data, ok, nil
}

func (s *Store) Put(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+key), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's messages to our logger. Badger is chatty on
// info level, so these are logged as debug.
type badgerLogger struct {
	s interface {
		Errorf(template string, args ...any)
		Warnf(template string, args ...any)
		Debugf(template string, args ...any)
	}
}

func (b badgerLogger) Errorf(f string, args ...any)   { b.s.Errorf(f, args...) }
func (b badgerLogger) Warningf(f string, args ...any) { b.s.Warnf(f, args...) }
func (b badgerLogger) Infof(f string, args ...any)    { b.s.Debugf(f, args...) }
func (b badgerLogger) Debugf(f string, args ...any)   { b.s.Debugf(f, args...) }
