package wasm

// Fragment accumulates bytes as a tree. Code generation builds one fragment
// per syntax node, bottom-up, and nests child fragments inside their parent
// without copying. Nothing is flattened until Bytes is called during final
// assembly, which keeps each lowering rule local and composable.
//
// A Fragment must not be modified after it has been appended to a parent
// that was already flattened.
type Fragment struct {
	parts []part
}

type part struct {
	frag *Fragment
	data []byte
}

// NewFragment returns an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{}
}

// Byte appends single bytes to the fragment.
func (f *Fragment) Byte(bs ...byte) *Fragment {
	f.parts = append(f.parts, part{data: bs})
	return f
}

// Raw appends a byte slice to the fragment. The slice is not copied.
func (f *Fragment) Raw(p []byte) *Fragment {
	f.parts = append(f.parts, part{data: p})
	return f
}

// Uint appends the unsigned LEB128 encoding of v.
func (f *Fragment) Uint(v uint64) *Fragment {
	return f.Raw(Uleb128(v))
}

// Sint appends the signed LEB128 encoding of v.
func (f *Fragment) Sint(v int64) *Fragment {
	return f.Raw(Sleb128(v))
}

// Name appends a length-prefixed UTF-8 name.
func (f *Fragment) Name(s string) *Fragment {
	f.Uint(uint64(len(s)))
	return f.Raw([]byte(s))
}

// Frag nests a child fragment. The child may still be extended afterwards;
// its final contents are picked up when the parent is flattened.
func (f *Fragment) Frag(child *Fragment) *Fragment {
	f.parts = append(f.parts, part{frag: child})
	return f
}

// Len returns the total byte length of the flattened fragment.
func (f *Fragment) Len() int {
	var n int
	for _, p := range f.parts {
		if p.frag != nil {
			n += p.frag.Len()
		} else {
			n += len(p.data)
		}
	}
	return n
}

// Bytes flattens the fragment tree into a single linear byte stream.
func (f *Fragment) Bytes() []byte {
	return f.appendTo(make([]byte, 0, f.Len()))
}

func (f *Fragment) appendTo(dst []byte) []byte {
	for _, p := range f.parts {
		if p.frag != nil {
			dst = p.frag.appendTo(dst)
		} else {
			dst = append(dst, p.data...)
		}
	}
	return dst
}
