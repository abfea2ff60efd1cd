package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
)

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(format.CompressionNone, "entry")
	require.NoError(t, err)
	require.IsType(t, NoOpCompressor{}, codec)

	codec, err = CreateCodec(format.CompressionZlib, "entry")
	require.NoError(t, err)
	require.IsType(t, ZlibCompressor{}, codec)

	_, err = CreateCodec(format.CompressionType(0x9), "entry")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid entry compression")

	_, err = GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
}

func TestZlibCompressor_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"small", []byte("hello pak")},
		{"repetitive", bytes.Repeat([]byte("YAX\x00node"), 4096)},
		{"single byte", []byte{0}},
	}

	codec, err := GetCodec(format.CompressionZlib)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := codec.Compress(tt.data)
			require.NoError(t, err)
			require.Equal(t, byte(0x78), packed[0], "zlib header")

			unpacked, err := codec.Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, tt.data, unpacked)
		})
	}
}

func TestZlibCompressor_Deterministic(t *testing.T) {
	codec := NewZlibCompressor()
	data := bytes.Repeat([]byte("abc"), 1000)

	first, err := codec.Compress(data)
	require.NoError(t, err)
	second, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestZlibCompressor_Corrupt(t *testing.T) {
	codec := NewZlibCompressor()

	_, err := codec.Decompress([]byte("not a zlib stream"))
	require.ErrorIs(t, err, errs.ErrDecompress)

	packed, err := codec.Compress(bytes.Repeat([]byte("x"), 100))
	require.NoError(t, err)
	_, err = codec.Decompress(packed[:len(packed)/2])
	require.ErrorIs(t, err, errs.ErrDecompress)

	out, err := codec.Decompress(nil)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestNoOpCompressor(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte("raw")

	packed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, packed)

	unpacked, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, unpacked)
}

func TestZlibCompressor_DecompressPrefix(t *testing.T) {
	codec := NewZlibCompressor()
	packed, err := codec.Compress(append([]byte("YAX\x00"), bytes.Repeat([]byte{1}, 512)...))
	require.NoError(t, err)

	head, err := codec.DecompressPrefix(packed, 4)
	require.NoError(t, err)
	require.Equal(t, []byte("YAX\x00"), head)

	short, err := codec.Compress([]byte("ab"))
	require.NoError(t, err)
	head, err = codec.DecompressPrefix(short, 4)
	require.NoError(t, err)
	require.Equal(t, []byte("ab"), head)

	_, err = codec.DecompressPrefix([]byte("junk"), 4)
	require.ErrorIs(t, err, errs.ErrDecompress)
}
