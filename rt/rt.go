// Package rt declares the boundary between generated codecs and a wire
// format implementation. Generated Encode and Decode functions are written
// against these interfaces; the concrete encoder decides the byte layout.
package rt

// Encoder writes one primitive value per call to an output stream.
type Encoder interface {
	WriteNull() error
	WriteBoolean(bool) error
	WriteInt(int32) error
	WriteLong(int64) error
	WriteFloat(float32) error
	WriteDouble(float64) error
	WriteString(string) error
	WriteBytes([]byte) error
	WriteFixed([]byte) error
	WriteEnum(int) error
	WriteArrayLen(int) error
	WriteMapLen(int) error
	WriteUnionIndex(int) error
}

// Decoder mirrors Encoder for reading.
type Decoder interface {
	ReadNull() error
	ReadBoolean() (bool, error)
	ReadInt() (int32, error)
	ReadLong() (int64, error)
	ReadFloat() (float32, error)
	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBytes() ([]byte, error)
	ReadFixed(size int) ([]byte, error)
	ReadEnum() (int, error)
	ReadArrayLen() (int, error)
	ReadMapLen() (int, error)
	ReadUnionIndex() (int, error)
}
