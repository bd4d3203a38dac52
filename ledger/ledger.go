// Package ledger is the durable state backend of the simulated exchange: a
// key-addressed JSON document store on the local filesystem. Keys are
// hierarchical strings ("account/balances", "trading/open_orders") mapped to
// files under the data directory. Writes go to a temp file in the target
// directory and are renamed into place, so a crash mid-write never leaves a
// corrupt document. There is no cross-writer locking; the simulator is a
// single-process design.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Ledger struct {
	dir string
}

func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Ledger{dir: dir}, nil
}

func (l *Ledger) Dir() string {
	return l.dir
}

func (l *Ledger) path(key string) (string, error) {
	if len(key) == 0 || strings.Contains(key, "..") {
		return "", errors.New("ledger: invalid key: " + key)
	}

	return filepath.Join(l.dir, filepath.FromSlash(key)+".json"), nil
}

// Read unmarshals the document at key into out. The boolean reports whether
// the document exists; a missing document is not an error.
func (l *Ledger) Read(key string, out interface{}) (bool, error) {
	path, err := l.path(key)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}

	return true, nil
}

// Write marshals doc and atomically replaces the document at key.
func (l *Ledger) Write(key string, doc interface{}) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".write-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Append pushes item onto the array document at key, creating the array when
// the document does not exist.
func (l *Ledger) Append(key string, item interface{}) error {
	var items []json.RawMessage
	if _, err := l.Read(key, &items); err != nil {
		return err
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}

	items = append(items, raw)

	return l.Write(key, items)
}

// Update finds the element of the array document at key whose "id" field
// matches id, merges patch into it and writes the document back. It reports
// whether a matching element was found.
func (l *Ledger) Update(key string, id interface{}, patch map[string]interface{}) (bool, error) {
	var items []map[string]interface{}
	found, err := l.Read(key, &items)
	if err != nil || !found {
		return false, err
	}

	want := fmt.Sprint(id)
	for i, item := range items {
		if fmt.Sprint(item["id"]) != want {
			continue
		}

		for k, v := range patch {
			items[i][k] = v
		}

		return true, l.Write(key, items)
	}

	return false, nil
}

func (l *Ledger) Delete(key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

func (l *Ledger) Exists(key string) bool {
	path, err := l.path(key)
	if err != nil {
		return false
	}

	_, err = os.Stat(path)

	return err == nil
}
