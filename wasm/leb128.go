package wasm

// AppendUleb128 appends the unsigned LEB128 encoding of v to dst and returns
// the extended slice. The full uint64 domain is supported.
func AppendUleb128(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendSleb128 appends the signed LEB128 encoding of v to dst and returns
// the extended slice. The full int64 domain is supported.
func AppendSleb128(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// Uleb128 returns the unsigned LEB128 encoding of v.
func Uleb128(v uint64) []byte {
	return AppendUleb128(nil, v)
}

// Sleb128 returns the signed LEB128 encoding of v.
func Sleb128(v int64) []byte {
	return AppendSleb128(nil, v)
}

// ReadUleb128 decodes an unsigned LEB128 value from the start of p and
// returns the value and the number of bytes consumed. A zero count means
// the input was truncated.
func ReadUleb128(p []byte) (uint64, int) {
	var result uint64
	var shift uint
	for i, b := range p {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// ReadSleb128 decodes a signed LEB128 value from the start of p and returns
// the value and the number of bytes consumed. A zero count means the input
// was truncated.
func ReadSleb128(p []byte) (int64, int) {
	var result int64
	var shift uint
	for i, b := range p {
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, i + 1
		}
	}
	return 0, 0
}
