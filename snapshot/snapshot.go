// Package snapshot stores a circular queue in a file so that a bounded
// history survives between runs.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/YaLTeR/circular-queue/circular"
	"gopkg.in/yaml.v3"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var (
	jsonCodec = codec{json.Marshal, json.Unmarshal}
	yamlCodec = codec{yaml.Marshal, yaml.Unmarshal}
)

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec
	default:
		return jsonCodec
	}
}

// Read decodes the queue stored at path with the capacity it was saved with.
func Read[T any](path string) (*circular.Queue[T], error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	q := &circular.Queue[T]{}
	if err := codecFor(path).unmarshal(b, q); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return q, nil
}

// Load is like Read but always returns a queue of the given capacity. A missing
// file yields an empty queue. When the stored capacity differs, the stored
// values are replayed from the oldest into a new queue and replayed is set;
// values that do not fit are evicted as by Push.
func Load[T any](path string, capacity int) (q *circular.Queue[T], replayed bool, err error) {
	stored, err := Read[T](path)
	if errors.Is(err, fs.ErrNotExist) {
		return circular.WithCapacity[T](capacity), false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if stored.Cap() == capacity {
		return stored, false, nil
	}

	q = circular.WithCapacity[T](capacity)
	for v := range stored.Ascending() {
		q.Push(v)
	}
	return q, true, nil
}

// Save writes q to path, replacing the previous content atomically. An existing
// file keeps its permissions, a new one is created with 0644.
func Save[T any](path string, q *circular.Queue[T]) error {
	b, err := codecFor(path).marshal(q)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
