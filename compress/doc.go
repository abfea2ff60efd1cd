// Package compress provides the payload codecs of PAK containers.
//
// The game stores a PAK payload either verbatim or as a zlib stream. Both are exposed
// through the same Codec interface so the PAK reader and writer never branch on the
// algorithm:
//
//	codec, err := compress.GetCodec(format.CompressionZlib)
//	packed, err := codec.Compress(payload)
//	payload, err = codec.Decompress(packed)
//
// The zlib implementation is github.com/klauspost/compress/zlib, a drop-in replacement
// for compress/zlib with a faster deflater.
package compress
