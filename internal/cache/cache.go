// Package cache memoizes raw EVDS responses on disk.
//
// Entries are keyed by a Fingerprint of the call and stored as one file
// per key:
//
//	{Dir}/
//	  {fingerprint}.cache
//
// Entries never expire. Put always replaces the previous payload. There is
// no locking between processes: two processes writing the same key race
// and whichever rename lands last wins.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
)

const fileExt = ".cache"

var (
	// ErrIO marks cache files that could not be read or written
	ErrIO = errors.New("cache i/o failure")

	// ErrInvalidFingerprint is returned for keys that cannot name a file
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
)

// IOError records the file operation that failed
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s cache entry %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// Options configures a Cache
type Options struct {
	// Dir is the cache directory. Required.
	Dir string
	// Verbose reports loads and saves at info level instead of debug.
	Verbose bool
	// Logger may be nil.
	Logger *log.Logger
}

// Cache is a file-backed, content-addressed store of opaque payloads
type Cache struct {
	dir     string
	verbose bool
	logger  *log.Logger
}

// Entry describes one stored payload
type Entry struct {
	Fingerprint string
	Size        int64
	ModTime     time.Time
}

// New creates the cache directory if needed
func New(opts Options) (*Cache, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, &IOError{Op: "create directory for", Path: opts.Dir, Err: err}
	}
	return &Cache{dir: opts.Dir, verbose: opts.Verbose, logger: opts.Logger}, nil
}

// Fingerprint digests an operation name and its arguments. Every part is
// written as <length>:<bytes> before hashing so that ("ab", "c") and
// ("a", "bc") produce different keys.
func Fingerprint(op string, args ...string) string {
	d := xxhash.New()
	writePart(d, op)
	for _, a := range args {
		writePart(d, a)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func writePart(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(strconv.Itoa(len(s)))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(s)
}

// Dir returns the cache directory
func (c *Cache) Dir() string { return c.dir }

// Path returns the file that holds the entry for fp
func (c *Cache) Path(fp string) string {
	return filepath.Join(c.dir, fp+fileExt)
}

// Has reports whether an entry file exists for fp
func (c *Cache) Has(fp string) bool {
	if validate(fp) != nil {
		return false
	}
	info, err := os.Stat(c.Path(fp))
	return err == nil && info.Mode().IsRegular()
}

// Get loads the payload stored for fp. A miss returns ok == false and a
// nil error.
func (c *Cache) Get(fp string) (payload []byte, ok bool, err error) {
	if err := validate(fp); err != nil {
		return nil, false, err
	}
	path := c.Path(fp)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &IOError{Op: "read", Path: path, Err: err}
	}
	c.report("loading cache", "path", path, "bytes", len(data))
	return data, true, nil
}

// Put stores payload under fp, replacing any existing entry. The payload
// is written to a temporary file in the same directory and renamed into
// place so readers never see a partial entry.
func (c *Cache) Put(fp string, payload []byte) error {
	if err := validate(fp); err != nil {
		return err
	}
	path := c.Path(fp)
	if err := writeFileAtomic(path, payload, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	c.report("saving cache", "path", path, "bytes", len(payload))
	return nil
}

// Entries lists stored payloads sorted by fingerprint
func (c *Cache) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: c.dir, Err: err}
	}
	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || filepath.Ext(name) != fileExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Fingerprint: strings.TrimSuffix(name, fileExt),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Fingerprint < entries[j].Fingerprint
	})
	return entries, nil
}

// Clear removes every stored payload and returns how many were removed
func (c *Cache) Clear() (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		path := c.Path(e.Fingerprint)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, &IOError{Op: "remove", Path: path, Err: err}
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) report(msg string, keyvals ...interface{}) {
	if c.logger == nil {
		return
	}
	if c.verbose {
		c.logger.Info(msg, keyvals...)
	} else {
		c.logger.Debug(msg, keyvals...)
	}
}

func validate(fp string) error {
	if fp == "" || fp == "." || fp == ".." || strings.ContainsAny(fp, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFingerprint, fp)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
