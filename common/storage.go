package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// U64Bytes encodes a non-negative integer as a fixed-width big-endian byte
// string. Fixed width keeps composite storage keys unambiguous and ordered.
func U64Bytes(x int) []byte {
	buf := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	for i := 7; i >= 0; i-- {
		buf[i] = byte(x & 0xff)
		x = x >> 8
	}
	return buf
}

// BytesEqual compares two byte slices.
func BytesEqual(a []byte, b []byte) bool {
	return util.Equals(string(a), string(b))
}
