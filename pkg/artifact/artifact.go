// Package artifact stores gob-encoded, snappy-compressed values on disk.
package artifact

import (
	"bufio"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Save encodes v to path. The file is written under a temporary name and
// renamed into place so readers never see a partial artifact.
func Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create artifact dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create artifact")
	}
	defer os.Remove(tmp.Name())

	sw := snappy.NewBufferedWriter(tmp)
	if err := gob.NewEncoder(sw).Encode(v); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "encode %T", v)
	}
	if err := sw.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "flush artifact")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close artifact")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "rename artifact")
}

// Load decodes the artifact at path into v, which must be a pointer.
func Load(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open artifact")
	}
	defer f.Close()

	sr := snappy.NewReader(bufio.NewReader(f))
	if err := gob.NewDecoder(sr).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
