package bytecode

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/lumen-lang/lumen/internal/value"
)

// lumenBytecodeMagic tags a serialized chunk with a 4-byte magic number
// plus a version byte, so a stray file never gets decoded as bytecode.
var lumenBytecodeMagic = [4]byte{'L', 'U', 'M', 'C'}

const bytecodeVersion byte = 0x01

func init() {
	gob.Register(value.Nil{})
	gob.Register(value.Bool(false))
	gob.Register(value.Number(0))
	gob.Register(&value.String{})
	gob.Register(&value.Function{})
	gob.Register(&Chunk{})
}

// gobChunk mirrors Chunk's exported fields: Chunk itself isn't gob-safe to
// encode directly into because Constants holds `value.Value`, an interface,
// and gob needs the concrete registrations above to decode it back.
type gobChunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

// Serialize renders chunk as the `.lmc` on-disk bytecode-cache format
// `lumenc -c` writes: magic + version + gob-encoded chunk. A Function's
// Chunk field is `any` to dodge the internal/value <-> internal/bytecode
// import cycle, so nested function constants round-trip as *value.Function
// whose own Chunk is itself a *Chunk, handled transparently by gob.
func Serialize(chunk *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(lumenBytecodeMagic[:])
	buf.WriteByte(bytecodeVersion)

	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(gobChunk{Code: chunk.Code, Lines: chunk.Lines, Constants: chunk.Constants}); err != nil {
		return nil, fmt.Errorf("bytecode: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize parses data written by Serialize.
func Deserialize(data []byte) (*Chunk, error) {
	if len(data) < 5 || [4]byte(data[:4]) != lumenBytecodeMagic {
		return nil, fmt.Errorf("bytecode: not a lumen bytecode file")
	}
	if data[4] != bytecodeVersion {
		return nil, fmt.Errorf("bytecode: unsupported bytecode version %d", data[4])
	}

	dec := gob.NewDecoder(bytes.NewReader(data[5:]))
	var gc gobChunk
	if err := dec.Decode(&gc); err != nil {
		return nil, fmt.Errorf("bytecode: decode: %w", err)
	}
	return &Chunk{Code: gc.Code, Lines: gc.Lines, Constants: gc.Constants}, nil
}
