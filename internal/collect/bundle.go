package collect

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pgrxgen/pgrxgen/internal/entity"
)

// Bundle framing: the build step serializes the manifest and every
// producer's blob into one byte stream, either embedded in the shared
// library (see shlib.go) or written as a standalone file. Layout:
//
//	magic "pgrxseg1"
//	uint32 entry count
//	per entry: uint16 symbol length, symbol bytes, descriptor blob
//
// All integers big-endian. Symbols appear in manifest order; the reader
// preserves them only for diagnostics.

var bundleMagic = []byte("pgrxseg1")

// BundleEntry pairs a producer symbol with its already-produced descriptor
type BundleEntry struct {
	Symbol     string
	Descriptor entity.Descriptor
}

// EncodeBundle serializes entries into bundle wire form
func EncodeBundle(entries []BundleEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bundleMagic)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(entries)))
	buf.Write(count[:])

	for _, e := range entries {
		if len(e.Symbol) > 0xffff {
			return nil, fmt.Errorf("producer symbol too long: %d bytes", len(e.Symbol))
		}
		var nameLen [2]byte
		binary.BigEndian.PutUint16(nameLen[:], uint16(len(e.Symbol)))
		buf.Write(nameLen[:])
		buf.WriteString(e.Symbol)

		blob, err := entity.EncodeBlob(e.Descriptor)
		if err != nil {
			return nil, err
		}
		buf.Write(blob)
	}
	return buf.Bytes(), nil
}

// DecodeBundle parses bundle wire form into a descriptor population
func DecodeBundle(data []byte) (*Set, error) {
	if !bytes.HasPrefix(data, bundleMagic) {
		return nil, fmt.Errorf("not a descriptor bundle: bad magic")
	}
	data = data[len(bundleMagic):]

	if len(data) < 4 {
		return nil, fmt.Errorf("truncated descriptor bundle header")
	}
	count := int(binary.BigEndian.Uint32(data))
	data = data[4:]

	// The count comes from untrusted input; an entry occupies at least 6
	// bytes (symbol length prefix plus blob length prefix), so cap the
	// pre-allocation by what the payload could possibly hold
	capacity := count
	if most := len(data) / 6; capacity > most {
		capacity = most
	}
	set := &Set{Descriptors: make([]entity.Descriptor, 0, capacity)}
	for i := 0; i < count; i++ {
		if len(data) < 2 {
			return nil, fmt.Errorf("truncated bundle entry %d", i)
		}
		nameLen := int(binary.BigEndian.Uint16(data))
		data = data[2:]
		if len(data) < nameLen {
			return nil, fmt.Errorf("truncated bundle entry %d symbol", i)
		}
		symbol := string(data[:nameLen])
		data = data[nameLen:]

		d, consumed, err := entity.DecodeBlob(data)
		if err != nil {
			return nil, &ProducerFault{Symbol: symbol, Cause: err}
		}
		data = data[consumed:]
		set.Descriptors = append(set.Descriptors, d)
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("trailing bytes after descriptor bundle: %d", len(data))
	}
	return set, nil
}

// BundleFromRegistry runs every producer in a registry and freezes the
// result into bundle entries, the form the build step writes to disk
func BundleFromRegistry(r *Registry) ([]BundleEntry, error) {
	set, err := r.Collect()
	if err != nil {
		return nil, err
	}
	manifest := r.Manifest()
	entries := make([]BundleEntry, len(set.Descriptors))
	for i, d := range set.Descriptors {
		entries[i] = BundleEntry{Symbol: manifest[i], Descriptor: d}
	}
	return entries, nil
}
