package entity

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// A descriptor blob is the wire form a producer returns: a 4-byte
// big-endian length followed by a JSON envelope tagging the variant. The
// encoding is stable for generator and extension built from the same
// version; there is no cross-version compatibility contract.

type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeBlob serializes a descriptor into its length-prefixed wire form
func EncodeBlob(d Descriptor) ([]byte, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s descriptor %s: %w", d.Kind(), d.FullPath(), err)
	}
	body, err := json.Marshal(envelope{Kind: d.Kind(), Payload: payload})
	if err != nil {
		return nil, err
	}
	blob := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(blob, uint32(len(body)))
	copy(blob[4:], body)
	return blob, nil
}

// DecodeBlob deserializes one descriptor from the front of buf and
// returns the number of bytes consumed
func DecodeBlob(buf []byte) (Descriptor, int, error) {
	if len(buf) < 4 {
		return nil, 0, fmt.Errorf("truncated descriptor blob: %d bytes", len(buf))
	}
	size := int(binary.BigEndian.Uint32(buf))
	if len(buf)-4 < size {
		return nil, 0, fmt.Errorf("truncated descriptor blob: want %d bytes, have %d", size, len(buf)-4)
	}

	var env envelope
	if err := json.Unmarshal(buf[4:4+size], &env); err != nil {
		return nil, 0, fmt.Errorf("malformed descriptor envelope: %w", err)
	}

	d, err := decodePayload(env.Kind, env.Payload)
	if err != nil {
		return nil, 0, err
	}
	return d, 4 + size, nil
}

func decodePayload(kind Kind, payload json.RawMessage) (Descriptor, error) {
	var d Descriptor
	switch kind {
	case KindSchema:
		d = &Schema{}
	case KindEnum:
		d = &Enum{}
	case KindComposite:
		d = &Composite{}
	case KindFunction:
		d = &Function{}
	case KindHashOpClass:
		d = &HashOpClass{}
	case KindOrdOpClass:
		d = &OrdOpClass{}
	case KindTrigger:
		d = &Trigger{}
	case KindAggregate:
		d = &Aggregate{}
	case KindRawSQL:
		d = &RawSQL{}
	default:
		return nil, fmt.Errorf("unknown descriptor kind %q", kind)
	}
	if err := json.Unmarshal(payload, d); err != nil {
		return nil, fmt.Errorf("malformed %s descriptor: %w", kind, err)
	}
	return d, nil
}
