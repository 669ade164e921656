// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/pierrec/lz4"
)

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, MagicLength+HeaderSizeNumberLength)
	if num, err := r.ReadAt(prefix, 0); num < len(prefix) {
		if err == nil || err == io.EOF {
			err = ErrFileFormat
		}
		return nil, err
	}
	if !bytes.Equal(prefix[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(prefix[MagicLength:])
	if err != nil || headerSize <= 0 || headerSize > MaxHeaderSize {
		return nil, ErrFileFormat
	}

	total, sized := readerSize(r)
	dataOffset := int64(len(prefix)) + headerSize
	if sized && dataOffset > total {
		return nil, fmt.Errorf("header of %d bytes past end of archive: %w", headerSize, ErrFileFormat)
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, int64(len(prefix))); int64(num) < headerSize {
		if err == nil || err == io.EOF {
			err = ErrFileFormat
		}
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrFileFormat)
	}

	for _, e := range header.Index {
		if err := checkEntry(e, total-dataOffset, sized); err != nil {
			return nil, err
		}
	}

	return &Archive{
		reader:     r,
		header:     header,
		dataOffset: dataOffset,
	}, nil
}

// checkEntry rejects entries that cannot be read from a data section
// of dataSize bytes. dataSize is only known when sized is set.
func checkEntry(e IndexEntry, dataSize int64, sized bool) error {
	switch {
	case e.Offset < 0 || e.Size < 0 || e.CompressedSize < 0:
		return fmt.Errorf("%s: negative size or offset: %w", e.Name, ErrFileFormat)
	case e.Size/maxCompressionRatio > e.CompressedSize:
		return fmt.Errorf("%s: %d bytes from %d compressed: %w", e.Name, e.Size, e.CompressedSize, ErrFileFormat)
	case sized && (e.CompressedSize > dataSize || e.Offset > dataSize-e.CompressedSize):
		return fmt.Errorf("%s: past end of archive: %w", e.Name, ErrFileFormat)
	}
	return nil
}

// readerSize finds the length of r when it can tell
func readerSize(r io.ReaderAt) (int64, bool) {
	switch v := r.(type) {
	case interface{ Size() int64 }:
		return v.Size(), true
	case interface{ Len() int }:
		return int64(v.Len()), true
	case interface{ Stat() (fs.FileInfo, error) }:
		if info, err := v.Stat(); err == nil {
			return info.Size(), true
		}
	}
	return 0, false
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader     io.ReaderAt
	header     Header
	dataOffset int64
}

// Header returns the archive header with its index
func (a *Archive) Header() Header {
	return a.header
}

// Files returns the names of all files, sorted
func (a *Archive) Files() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, e := range a.header.Index {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, r.entry.Size))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", name, err.Error(), ErrSize)
	}
	if int64(len(data)) != r.entry.Size {
		return nil, fmt.Errorf("%s: read %d of %d bytes: %w", name, len(data), r.entry.Size, ErrSize)
	}
	return data, nil
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	entry, ok := a.header.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	section := io.NewSectionReader(a.reader, a.dataOffset+entry.Offset, entry.CompressedSize)
	return &Reader{
		entry: entry,
		lz4:   lz4.NewReader(section),
	}, nil
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry IndexEntry
	lz4   *lz4.Reader
}

var _ io.Reader = (*Reader)(nil)

// Entry returns the index entry being read
func (r *Reader) Entry() IndexEntry {
	return r.entry
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.lz4.Read(p)
}
