// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/devblok/shed/utility/kar"
	log "github.com/sirupsen/logrus"
)

// pack adds every regular file under dir to an archive written to w.
// Entries are named by their slash separated path relative to dir.
func pack(dir string, w io.Writer, header kar.Header) (int64, error) {
	builder, err := kar.NewBuilder(header)
	if err != nil {
		return 0, err
	}
	defer builder.Close()

	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		log.WithField("file", rel).Debug("adding")
		return builder.Add(filepath.ToSlash(rel), f)
	}); err != nil {
		return 0, err
	}
	return builder.WriteTo(w)
}

// unpack writes every file of a under dir. Names escaping dir are
// rejected.
func unpack(a *kar.Archive, dir string) error {
	for _, name := range a.Files() {
		rel := filepath.FromSlash(name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("%s: %w", name, kar.ErrFileFormat)
		}
		if err := unpackFile(a, name, filepath.Join(dir, rel)); err != nil {
			return err
		}
		log.WithField("file", name).Debug("extracted")
	}
	return nil
}

func unpackFile(a *kar.Archive, name, path string) error {
	r, err := a.Open(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
