package wasm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUleb128(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{63, []byte{0x3f}},
		{64, []byte{0x40}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, Uleb128(tt.value), "value %d", tt.value)
	}
}

func TestSleb128(t *testing.T) {
	tests := []struct {
		value    int64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{42, []byte{0x2a}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-1, []byte{0x7f}},
		{-64, []byte{0x40}},
		{-65, []byte{0xbf, 0x7f}},
		{123456, []byte{0xc0, 0xc4, 0x07}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
		{math.MaxInt32, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{math.MinInt32, []byte{0x80, 0x80, 0x80, 0x80, 0x78}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, Sleb128(tt.value), "value %d", tt.value)
	}
}

func TestReadUleb128(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 624485, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		encoded := Uleb128(v)
		decoded, n := ReadUleb128(encoded)
		require.Equal(t, len(encoded), n)
		require.Equal(t, v, decoded)
	}
	// Truncated input
	_, n := ReadUleb128([]byte{0x80})
	require.Equal(t, 0, n)
}

func TestReadSleb128(t *testing.T) {
	values := []int64{0, 1, -1, 42, -64, -65, 624485, -123456, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		encoded := Sleb128(v)
		decoded, n := ReadSleb128(encoded)
		require.Equal(t, len(encoded), n)
		require.Equal(t, v, decoded)
	}
	// Truncated input
	_, n := ReadSleb128([]byte{0x80})
	require.Equal(t, 0, n)
}

func TestAppendUleb128(t *testing.T) {
	dst := []byte{0xaa}
	dst = AppendUleb128(dst, 128)
	require.Equal(t, []byte{0xaa, 0x80, 0x01}, dst)
}
