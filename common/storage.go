package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// idKeyLen is the number of bytes AppendID writes per identifier. Wide
// enough for any counter this contract can realistically assign, fixed so
// that composite keys cannot collide.
const idKeyLen = 8

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// AppendID appends a fixed-width big-endian encoding of a non-negative
// integer identifier to the given storage key prefix.
func AppendID(prefix []byte, id int) []byte {
	buf := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	for i := idKeyLen - 1; i >= 0; i-- {
		buf[i] = byte(id & 0xff)
		id = id >> 8
	}
	return append(prefix, buf...)
}
