// Copyright 2025 Poiesic Systems
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


package badger

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/ragforge/core"
)

var (
	vectorMUS   = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
	paramsMUS   = ord.NewMapSer[string, int](ord.String, varint.Int)
)

// collectionMeta is the per-collection metadata record.
type collectionMeta struct {
	Dimension int
	Params    map[string]int
}

// metaSer serializes collectionMeta.
type metaSer struct{}

func (metaSer) Marshal(m collectionMeta, bs []byte) (n int) {
	n = varint.Int.Marshal(m.Dimension, bs)
	n += paramsMUS.Marshal(m.Params, bs[n:])
	return n
}

func (metaSer) Unmarshal(bs []byte) (m collectionMeta, n int, err error) {
	var n1 int
	if m.Dimension, n, err = varint.Int.Unmarshal(bs); err != nil {
		return m, n, err
	}
	m.Params, n1, err = paramsMUS.Unmarshal(bs[n:])
	return m, n + n1, err
}

func (metaSer) Size(m collectionMeta) int {
	return varint.Int.Size(m.Dimension) + paramsMUS.Size(m.Params)
}

func (metaSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = varint.Int.Skip(bs); err != nil {
		return n, err
	}
	n1, err = paramsMUS.Skip(bs[n:])
	return n + n1, err
}

var collectionMetaMUS = metaSer{}

// marshalMeta serializes a collection metadata record to bytes.
func marshalMeta(m collectionMeta) []byte {
	buf := make([]byte, collectionMetaMUS.Size(m))
	collectionMetaMUS.Marshal(m, buf)
	return buf
}

// unmarshalMeta deserializes a collection metadata record from bytes.
func unmarshalMeta(data []byte) (collectionMeta, error) {
	m, _, err := collectionMetaMUS.Unmarshal(data)
	return m, err
}

// payloadSer serializes core.Payload field by field in declaration order.
type payloadSer struct{}

func (payloadSer) Marshal(p core.Payload, bs []byte) (n int) {
	n = ord.String.Marshal(p.Text, bs)
	n += ord.String.Marshal(p.DocID, bs[n:])
	n += varint.Uint32.Marshal(p.ChunkIndex, bs[n:])
	n += ord.String.Marshal(p.ContentHash, bs[n:])
	n += metadataMUS.Marshal(p.Metadata, bs[n:])
	return n
}

func (payloadSer) Unmarshal(bs []byte) (p core.Payload, n int, err error) {
	var n1 int
	if p.Text, n, err = ord.String.Unmarshal(bs); err != nil {
		return p, n, err
	}
	if p.DocID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ChunkIndex, n1, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ContentHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	return p, n + n1, err
}

func (payloadSer) Size(p core.Payload) (size int) {
	size = ord.String.Size(p.Text)
	size += ord.String.Size(p.DocID)
	size += varint.Uint32.Size(p.ChunkIndex)
	size += ord.String.Size(p.ContentHash)
	size += metadataMUS.Size(p.Metadata)
	return size
}

func (payloadSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return n, err
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Uint32.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = metadataMUS.Skip(bs[n:])
	return n + n1, err
}

// pointSer serializes core.Point.
type pointSer struct{}

func (pointSer) Marshal(p core.Point, bs []byte) (n int) {
	n = ord.String.Marshal(p.ID, bs)
	n += vectorMUS.Marshal(p.Vector, bs[n:])
	n += payloadMUS.Marshal(p.Payload, bs[n:])
	return n
}

func (pointSer) Unmarshal(bs []byte) (p core.Point, n int, err error) {
	var n1 int
	if p.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return p, n, err
	}
	if p.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.Payload, n1, err = payloadMUS.Unmarshal(bs[n:])
	return p, n + n1, err
}

func (pointSer) Size(p core.Point) (size int) {
	size = ord.String.Size(p.ID)
	size += vectorMUS.Size(p.Vector)
	size += payloadMUS.Size(p.Payload)
	return size
}

func (pointSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return n, err
	}
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = payloadMUS.Skip(bs[n:])
	return n + n1, err
}

var (
	payloadMUS = payloadSer{}
	pointMUS   = pointSer{}
)

// marshalPoint serializes a point to bytes.
func marshalPoint(p core.Point) []byte {
	buf := make([]byte, pointMUS.Size(p))
	pointMUS.Marshal(p, buf)
	return buf
}

// unmarshalPoint deserializes a point from bytes.
func unmarshalPoint(data []byte) (core.Point, error) {
	p, _, err := pointMUS.Unmarshal(data)
	return p, err
}
