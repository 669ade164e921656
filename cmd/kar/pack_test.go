// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/shed/utility/kar"
	qt "github.com/frankban/quicktest"
)

func TestPackUnpack(t *testing.T) {
	c := qt.New(t)

	src := c.TempDir()
	c.Assert(os.MkdirAll(filepath.Join(src, "sub"), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(src, "plasma.frag.glsl"), []byte("void main() {}"), 0o644), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(src, "sub", "quad.dae"), []byte("<COLLADA/>"), 0o644), qt.IsNil)

	var buf bytes.Buffer
	n, err := pack(src, &buf, kar.Header{Author: "devblok", Version: 2})
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(buf.Len()))

	a, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Files(), qt.DeepEquals, []string{"plasma.frag.glsl", "sub/quad.dae"})
	c.Assert(a.Header().Version, qt.Equals, int64(2))

	dst := c.TempDir()
	c.Assert(unpack(a, dst), qt.IsNil)

	got, err := os.ReadFile(filepath.Join(dst, "sub", "quad.dae"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "<COLLADA/>")

	c.Run("existing files are kept", func(c *qt.C) {
		c.Assert(unpack(a, dst), qt.ErrorIs, os.ErrExist)
	})
}

func TestUnpackRejectsEscapingNames(t *testing.T) {
	c := qt.New(t)

	builder, err := kar.NewBuilder(kar.Header{})
	c.Assert(err, qt.IsNil)
	defer builder.Close()
	c.Assert(builder.Add("../escape", bytes.NewReader([]byte("x"))), qt.IsNil)

	var buf bytes.Buffer
	_, err = builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)

	a, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)

	dir := c.TempDir()
	c.Assert(unpack(a, filepath.Join(dir, "out")), qt.ErrorIs, kar.ErrFileFormat)
	_, err = os.Stat(filepath.Join(dir, "escape"))
	c.Assert(err, qt.ErrorIs, os.ErrNotExist)
}
