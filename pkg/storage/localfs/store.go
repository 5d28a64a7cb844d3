// Copyright © 2026 Arka Labs

// Package localfs implements the storage gateway over a local file tree.
//
// The implementation is afero-backed so tests run against an in-memory
// filesystem. Atomic writes go through a sibling temp file which is then
// renamed over the destination; rename atomicity is what keeps readers
// from ever observing a half-written document.
package localfs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

const tmpSuffix = ".tmp"

// Option configures the local store.
type Option func(*localFS)

// WithFs overrides the backing filesystem (tests pass afero.NewMemMapFs()).
func WithFs(fs afero.Fs) Option {
	return func(l *localFS) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithLogger sets the store logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *localFS) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a gateway rooted at dir on the OS filesystem, unless WithFs
// substitutes another backing filesystem (in which case dir is only a
// label).
func New(dir string, opts ...Option) storage.Store {
	l := &localFS{
		root: dir,
		log:  zap.NewNop(),
		json: jsoniter.ConfigCompatibleWithStandardLibrary,
	}
	for _, apply := range opts {
		apply(l)
	}
	if l.fs == nil {
		l.fs = afero.NewBasePathFs(afero.NewOsFs(), dir)
	}
	return l
}

type localFS struct {
	fs   afero.Fs
	root string
	log  *zap.Logger
	json jsoniter.API
}

func (l *localFS) String() string {
	return "localfs@" + l.root
}

// resolve normalizes a root-relative path and rejects anything that would
// escape the root. This is the sole traversal defense and runs before any
// filesystem call.
func (l *localFS) resolve(p string) (string, error) {
	if p == "" {
		return "", status.InvalidPayload("empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return "", status.AccessDenied("path traversal attempt: " + p)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", status.AccessDenied("path traversal attempt: " + p)
	}
	return clean, nil
}

// mapErr is the single translation point from OS failures to the status
// taxonomy.
func mapErr(op, key string, err error) error {
	switch {
	case os.IsNotExist(err):
		return status.NotFound(op + " " + key).Wrap(err)
	case os.IsPermission(err):
		return status.AccessDenied(op + " " + key).Wrap(err)
	default:
		return status.IO(op + " " + key).Wrap(err)
	}
}

func (l *localFS) Exists(ctx context.Context, path string) (bool, error) {
	key, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, mapErr("stat", key, err)
	}
	return !fi.IsDir(), nil
}

func (l *localFS) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	key, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(l.fs, key)
	if err != nil {
		return nil, mapErr("read", key, err)
	}
	return data, nil
}

func (l *localFS) ReadJSON(ctx context.Context, path string, out interface{}) error {
	data, err := l.ReadBytes(ctx, path)
	if err != nil {
		return err
	}
	if err := l.json.Unmarshal(data, out); err != nil {
		return status.IO("invalid JSON syntax in " + path).Wrap(err)
	}
	return nil
}

func (l *localFS) WriteBytesAtomic(ctx context.Context, path string, data []byte) error {
	key, err := l.resolve(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(key); dir != "" && dir != "." {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return mapErr("mkdir", dir, err)
		}
	}
	tmp := key + tmpSuffix
	if err := afero.WriteFile(l.fs, tmp, data, 0600); err != nil {
		return mapErr("write", tmp, err)
	}
	if err := l.fs.Rename(tmp, key); err != nil {
		return mapErr("rename", key, err)
	}
	l.log.Debug("wrote file", zap.String("path", key), zap.Int("bytes", len(data)))
	return nil
}

func (l *localFS) WriteJSONAtomic(ctx context.Context, path string, v interface{}) error {
	data, err := l.json.MarshalIndent(v, "", "  ")
	if err != nil {
		return status.InvalidPayload("content is not JSON-serializable").Wrap(err)
	}
	return l.WriteBytesAtomic(ctx, path, data)
}

func (l *localFS) AppendJSONLine(ctx context.Context, path string, v interface{}) error {
	key, err := l.resolve(path)
	if err != nil {
		return err
	}
	line, err := l.json.Marshal(v)
	if err != nil {
		return status.InvalidPayload("record is not JSON-serializable").Wrap(err)
	}
	if dir := filepath.Dir(key); dir != "" && dir != "." {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return mapErr("mkdir", dir, err)
		}
	}
	f, err := l.fs.OpenFile(key, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return mapErr("open", key, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return mapErr("append", key, err)
	}
	if err := f.Close(); err != nil {
		return mapErr("close", key, err)
	}
	return nil
}

func (l *localFS) ReadJSONLines(ctx context.Context, path string, limit int) ([]json.RawMessage, error) {
	data, err := l.ReadBytes(ctx, path)
	if err != nil {
		if status.IsNotFound(err) {
			return []json.RawMessage{}, nil
		}
		return nil, err
	}
	records := make([]json.RawMessage, 0, 16)
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || !l.json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func (l *localFS) ListRecursive(ctx context.Context, dir string) ([]string, error) {
	key, err := l.resolve(dir)
	if err != nil {
		return nil, err
	}
	if fi, err := l.fs.Stat(key); err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, mapErr("stat", key, err)
	} else if !fi.IsDir() {
		return []string{}, nil
	}
	paths := make([]string, 0, 32)
	walkErr := afero.Walk(l.fs, key, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		paths = append(paths, filepath.ToSlash(p))
		return nil
	})
	if walkErr != nil {
		return nil, mapErr("walk", key, walkErr)
	}
	return paths, nil
}

func (l *localFS) EnsureDir(ctx context.Context, path string) error {
	key, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := l.fs.MkdirAll(key, 0700); err != nil {
		return mapErr("mkdir", key, err)
	}
	return nil
}
