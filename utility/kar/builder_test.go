// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestAddAndWrite(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	c.Assert(builder.Add("test", strings.NewReader("idunvovkjnreovmegihjbrqlkmfrjnb")), qt.IsNil)
	c.Assert(builder.Add("test2", strings.NewReader("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb")), qt.IsNil)
	c.Assert(builder.Len(), qt.Equals, 2)
	c.Assert(builder.files[0].Size, qt.Equals, int64(31))

	var buf bytes.Buffer
	num, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(num, qt.Equals, int64(buf.Len()))
	c.Assert(buf.Bytes()[:MagicLength], qt.DeepEquals, magic[:])
	c.Assert(builder.Len(), qt.Equals, 0)

	entries, err := os.ReadDir(builder.tempDir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 0)
}

func TestAddDuplicate(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{Author: "devblok"})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	c.Assert(builder.Add("shader.frag", strings.NewReader("a")), qt.IsNil)
	c.Assert(builder.Add("shader.frag", strings.NewReader("b")), qt.ErrorIs, ErrDuplicate)
	c.Assert(builder.Len(), qt.Equals, 1)
}

func TestBuilderClose(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{})
	c.Assert(err, qt.IsNil)
	c.Assert(builder.Add("x", strings.NewReader("x")), qt.IsNil)

	c.Assert(builder.Close(), qt.IsNil)
	_, err = os.Stat(builder.tempDir)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestInt64Binary(t *testing.T) {
	c := qt.New(t)
	for _, num := range []int64{0, 1, 255, 1 << 40, -7} {
		got, err := binaryToint64(int64ToBinary(num))
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, num)
	}
	_, err := binaryToint64([]byte{1, 2})
	c.Assert(err, qt.Equals, ErrFileFormat)
}
