// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session implements the in-memory credential cache consulted before
// prompting for a document password.
//
// The cache is an explicitly constructed object: create it with [NewCache]
// at startup and call [Cache.Shutdown] at teardown. It holds passwords or
// derived keys per document path according to the active [Mode].
//
// In the two password modes one remembered password serves every document:
// when a path has no entry of its own, any other unexpired password is
// returned. A single password therefore unlocks all documents of a session.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// Config is the runtime-adjustable configuration of a [Cache].
type Config struct {
	// Mode is the retention policy. Empty means [ModeSessionPassword].
	Mode Mode

	// Timeout bounds how long a password is kept in
	// [ModeSessionPassword]. Zero keeps it until cleared.
	Timeout time.Duration

	// TimedWindow bounds how long a password is kept in
	// [ModeTimedPassword].
	TimedWindow time.Duration
}

// Option configures a [Cache].
type Option func(*Cache)

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// entry is one cached credential. password and key are optional depending
// on the mode; in keys-only mode password is always empty.
type entry struct {
	path      string
	password  string
	key       *crypto.Key
	hint      string
	storedAt  time.Time
	expiresAt time.Time // zero means no expiry
	timer     *time.Timer
}

func (e *entry) alive(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Cache is the process-wide session store keyed by document path.
//
// Expiry is enforced twice: a timer removes the entry when it fires, and
// every lookup re-checks the deadline so a late timer can never hand out
// stale credentials. Callers are expected to serialize mutations; the
// internal mutex only protects against the timer goroutines.
type Cache struct {
	mu          sync.Mutex
	mode        Mode
	timeout     time.Duration
	timedWindow time.Duration
	entries     map[string]*entry
	now         func() time.Time
	logger      *logger.Logger
}

// NewCache constructs an empty cache.
func NewCache(cfg Config, log *logger.Logger, opts ...Option) (*Cache, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeSessionPassword
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	c := &Cache{
		mode:        mode,
		timeout:     cfg.Timeout,
		timedWindow: cfg.TimedWindow,
		entries:     make(map[string]*entry),
		now:         time.Now,
		logger:      log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Mode returns the active retention policy.
func (c *Cache) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the retention policy. Any actual switch wipes every
// entry first; modes never coexist.
func (c *Cache) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == c.mode {
		return nil
	}

	c.clearLocked()
	c.logger.Info().Str("from", c.mode.String()).Str("to", mode.String()).Msg("session mode switched")
	c.mode = mode
	return nil
}

// SetTimeout changes the session-password timeout. It applies from the
// next Put.
func (c *Cache) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// SetTimedWindow changes the timed-password window. It applies from the
// next Put.
func (c *Cache) SetTimedWindow(d time.Duration) {
	c.mu.Lock()
	c.timedWindow = d
	c.mu.Unlock()
}

// Put records the credentials used to open or save path.
//
//   - no-storage: nothing is stored.
//   - keys-only: key is required and stored with the hint; password is
//     dropped. The entry lives until cleared.
//   - timed-password: password (and key, if any) are stored until now +
//     the timed window.
//   - session-password: password (and key, if any) are stored until now +
//     the timeout, or indefinitely when the timeout is zero.
//
// Any previous entry for path, and its timer, is replaced.
func (c *Cache) Put(path, password, hint string, key *crypto.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ttl time.Duration
	e := &entry{path: path, hint: hint, storedAt: c.now()}

	switch c.mode {
	case ModeNoStorage:
		return nil
	case ModeKeysOnly:
		if key == nil {
			return ErrKeyRequired
		}
		e.key = key
	case ModeTimedPassword:
		if password == "" {
			return ErrPasswordRequired
		}
		e.password, e.key = password, key
		ttl = c.timedWindow
	case ModeSessionPassword:
		if password == "" {
			return ErrPasswordRequired
		}
		e.password, e.key = password, key
		ttl = c.timeout
	}

	if old, ok := c.entries[path]; ok {
		c.dropLocked(old, old.key != key)
	}

	if ttl > 0 {
		e.expiresAt = e.storedAt.Add(ttl)
		e.timer = time.AfterFunc(ttl, func() { c.expire(e) })
	}
	c.entries[path] = e

	c.logger.Debug().Str("path", path).Str("mode", c.mode.String()).Dur("ttl", ttl).Msg("session entry stored")
	return nil
}

// GetPassword returns a remembered password for path. The exact path wins;
// otherwise the most recently stored unexpired password of any other path is
// returned. Always empty in keys-only and no-storage modes.
func (c *Cache) GetPassword(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mode.keepsPasswords() {
		return "", false
	}

	if e, ok := c.liveLocked(path); ok && e.password != "" {
		return e.password, true
	}

	var best *entry
	for p := range c.entries {
		e, ok := c.liveLocked(p)
		if !ok || e.password == "" {
			continue
		}
		if best == nil || e.storedAt.After(best.storedAt) {
			best = e
		}
	}
	if best == nil {
		return "", false
	}

	c.logger.Debug().Str("path", path).Str("source", best.path).Msg("password shared from another document")
	return best.password, true
}

// GetKey returns the derived key cached for exactly path. Keys are never
// shared across paths.
func (c *Cache) GetKey(path string) (*crypto.Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeNoStorage {
		return nil, false
	}

	e, ok := c.liveLocked(path)
	if !ok || e.key == nil {
		return nil, false
	}
	return e.key, true
}

// GetHint returns the hint recorded with path's entry.
func (c *Cache) GetHint(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveLocked(path)
	if !ok {
		return "", false
	}
	return e.hint, true
}

// Expiry returns the absolute deadline of path's entry. The zero time with
// ok=true means the entry never expires.
func (c *Cache) Expiry(path string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveLocked(path)
	if !ok {
		return time.Time{}, false
	}
	return e.expiresAt, true
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for p := range c.entries {
		if _, ok := c.liveLocked(p); ok {
			n++
		}
	}
	return n
}

// ClearFile cancels and removes the entry for path.
func (c *Cache) ClearFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok {
		c.dropLocked(e, true)
		c.logger.Debug().Str("path", path).Msg("session entry cleared")
	}
}

// Clear cancels and removes every entry and timer.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// Shutdown wipes the cache at process teardown.
func (c *Cache) Shutdown() {
	c.Clear()
	c.logger.Debug().Msg("session cache shut down")
}

// HandleRename moves the entry of oldPath, together with its pending timer,
// to newPath. Content and expiry are unchanged.
func (c *Cache) HandleRename(oldPath, newPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[oldPath]
	if !ok || oldPath == newPath {
		return
	}

	if existing, ok := c.entries[newPath]; ok {
		c.dropLocked(existing, existing.key != e.key)
	}

	delete(c.entries, oldPath)
	e.path = newPath
	c.entries[newPath] = e

	c.logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("session entry renamed")
}

// expire is the timer callback. It only removes e if e is still the
// current entry for its path, so a stale timer cannot delete a newer entry.
func (c *Cache) expire(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[e.path]; ok && cur == e {
		c.dropLocked(e, true)
		c.logger.Debug().Str("path", e.path).Msg("session entry expired")
	}
}

// liveLocked returns path's entry if it has not expired, evicting it
// otherwise.
func (c *Cache) liveLocked(path string) (*entry, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	if !e.alive(c.now()) {
		c.dropLocked(e, true)
		return nil, false
	}
	return e, true
}

// dropLocked stops e's timer and removes it from the map. With
// destroyKey the cached key material is dropped too.
func (c *Cache) dropLocked(e *entry, destroyKey bool) {
	if e.timer != nil {
		e.timer.Stop()
	}
	if cur, ok := c.entries[e.path]; ok && cur == e {
		delete(c.entries, e.path)
	}
	if destroyKey && e.key != nil {
		e.key.Destroy()
	}
	e.password = ""
}

func (c *Cache) clearLocked() {
	for _, e := range c.entries {
		c.dropLocked(e, true)
	}
	c.entries = make(map[string]*entry)
}
