// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/shed/utility/kar"
	qt "github.com/frankban/quicktest"
)

func TestOpenNotKar(t *testing.T) {
	c := qt.New(t)

	_, err := kar.Open(bytes.NewReader([]byte("PK\x03\x04 definitely a zip file")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader([]byte("KAR")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	data := build(c, map[string]string{"test": testString1})
	_, err = kar.Open(bytes.NewReader(data[:20]))
	c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
}

func TestOpenMissingFile(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.Open(bytes.NewReader(build(c, map[string]string{"test": testString1})))
	c.Assert(err, qt.IsNil)

	_, err = ar.Open("nope")
	c.Assert(err, qt.ErrorIs, fs.ErrNotExist)
	_, err = ar.ReadAll("nope")
	c.Assert(err, qt.ErrorIs, fs.ErrNotExist)
}

func TestOpenFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "opentest.kar")
	c.Assert(os.WriteFile(path, build(c, map[string]string{
		"test/test1.txt": "this is a test",
		"test/test2.txt": "this is another test",
	}), 0644), qt.IsNil)

	ar, err := kar.OpenFile(path)
	c.Assert(err, qt.IsNil)
	defer ar.Close()

	got, err := ar.ReadAll("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "this is a test")

	got, err = ar.ReadAll("test/test2.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "this is another test")
}

func TestOpenFileMissing(t *testing.T) {
	c := qt.New(t)
	_, err := kar.OpenFile(filepath.Join(c.TempDir(), "missing.kar"))
	c.Assert(err, qt.ErrorIs, fs.ErrNotExist)
}

// rawArchive lays out an archive by hand, with whatever index it is given
func rawArchive(c *qt.C, header kar.Header, data []byte) []byte {
	var encoded bytes.Buffer
	c.Assert(gob.NewEncoder(&encoded).Encode(header), qt.IsNil)

	var buf bytes.Buffer
	buf.WriteString("KAR\x00")
	c.Assert(binary.Write(&buf, binary.LittleEndian, int64(encoded.Len())), qt.IsNil)
	buf.Write(encoded.Bytes())
	buf.Write(data)
	return buf.Bytes()
}

// readerAtOnly hides the size of the underlying reader
type readerAtOnly struct {
	r io.ReaderAt
}

func (r readerAtOnly) ReadAt(p []byte, off int64) (int, error) {
	return r.r.ReadAt(p, off)
}

func TestOpenBadHeaderSize(t *testing.T) {
	c := qt.New(t)

	sizes := []struct {
		about string
		size  int64
	}{
		{"huge", 1 << 62},
		{"negative", -1},
		{"past end", 4096},
	}
	for _, test := range sizes {
		c.Run(test.about, func(c *qt.C) {
			var buf bytes.Buffer
			buf.WriteString("KAR\x00")
			c.Assert(binary.Write(&buf, binary.LittleEndian, test.size), qt.IsNil)
			buf.WriteString("short header")

			_, err := kar.Open(bytes.NewReader(buf.Bytes()))
			c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
			_, err = kar.Open(readerAtOnly{bytes.NewReader(buf.Bytes())})
			c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
		})
	}
}

func TestOpenBadIndex(t *testing.T) {
	c := qt.New(t)
	data := bytes.Repeat([]byte{0}, 64)

	entries := []struct {
		about string
		entry kar.IndexEntry
	}{
		{"negative size", kar.IndexEntry{Name: "a", Size: -1, CompressedSize: 8}},
		{"negative compressed size", kar.IndexEntry{Name: "a", Size: 8, CompressedSize: -8}},
		{"negative offset", kar.IndexEntry{Name: "a", Offset: -8, Size: 8, CompressedSize: 8}},
		{"offset past data", kar.IndexEntry{Name: "a", Offset: 60, Size: 8, CompressedSize: 8}},
		{"compressed past data", kar.IndexEntry{Name: "a", Size: 8, CompressedSize: 1 << 62}},
		{"offset overflow", kar.IndexEntry{Name: "a", Offset: 1<<63 - 4, Size: 8, CompressedSize: 8}},
		{"impossible ratio", kar.IndexEntry{Name: "a", Size: 1 << 60, CompressedSize: 64}},
	}
	for _, test := range entries {
		c.Run(test.about, func(c *qt.C) {
			raw := rawArchive(c, kar.Header{Index: []kar.IndexEntry{test.entry}}, data)
			_, err := kar.Open(bytes.NewReader(raw))
			c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
		})
	}
}

func TestReadAllUnsizedReader(t *testing.T) {
	c := qt.New(t)

	// nothing bounds the entry against the data when the size is unknown
	raw := rawArchive(c, kar.Header{Index: []kar.IndexEntry{
		{Name: "a", Size: 1 << 50, CompressedSize: 1 << 40},
	}}, []byte("not lz4"))

	ar, err := kar.Open(readerAtOnly{bytes.NewReader(raw)})
	c.Assert(err, qt.IsNil)
	_, err = ar.ReadAll("a")
	c.Assert(err, qt.ErrorIs, kar.ErrSize)

	c.Run("sized readers reject it", func(c *qt.C) {
		_, err := kar.Open(bytes.NewReader(raw))
		c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
	})
}
