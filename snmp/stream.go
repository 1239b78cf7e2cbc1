// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snmp

import (
	"bufio"
	"bytes"
	"io"
)

// Sink is the write side of the streaming adapter (spec §2 component 8,
// §9 "one trait, two implementations"). Both the pre-sized buffer path and
// the direct-to-transport stream path satisfy it with stdlib types, so
// Value.Encode never needs two code paths.
type Sink interface {
	io.Writer
	WriteByte(byte) error
}

// Source is the read side of the streaming adapter. bufio.Reader satisfies
// it directly for both the in-memory buffer path (wrapping a bytes.Reader)
// and the live transport path (wrapping a net.Conn or any io.Reader).
type Source interface {
	io.Reader
	ReadByte() (byte, error)
	Peek(n int) ([]byte, error)
}

// newBufferSink returns a growable Sink pre-sized to hold an encoding of
// sizeHint bytes, used by Message.Build after the size oracle has run.
func newBufferSink(sizeHint int) *bytes.Buffer {
	buf := new(bytes.Buffer)
	buf.Grow(sizeHint)
	return buf
}

// newStreamSink returns a Sink that writes directly to w, used by
// BuildIntoStream. Callers must Flush before the underlying writer is
// considered complete.
func newStreamSink(w io.Writer) *bufio.Writer {
	return bufio.NewWriter(w)
}

// newBufferSource returns a Source over an in-memory byte slice, used by
// ParseMessage.
func newBufferSource(data []byte) *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(data))
}

// newStreamSource returns a Source over a live reader, used by
// ParseFromStream.
func newStreamSource(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}

// countingSource wraps a Source and tracks how many bytes have been
// consumed via Read/ReadByte, so a constructed value's decodeBody can
// verify its children exactly fill the declared length (spec §4.7).
// Peek does not advance the count since it does not consume input.
type countingSource struct {
	Source
	consumed int
}

func newCountingSource(src Source) *countingSource {
	return &countingSource{Source: src}
}

func (c *countingSource) Read(p []byte) (int, error) {
	n, err := c.Source.Read(p)
	c.consumed += n
	return n, err
}

func (c *countingSource) ReadByte() (byte, error) {
	b, err := c.Source.ReadByte()
	if err == nil {
		c.consumed++
	}
	return b, err
}
