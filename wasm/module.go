package wasm

// LocalGroup is one run-length entry in a function's local declarations:
// Count consecutive locals of the same value type.
type LocalGroup struct {
	Count uint32
	Type  ValType
}

// Function is the immutable record the code generator produces for each
// function declaration. The module builder consumes an ordered list of
// these; their order defines the function index space.
type Function struct {
	Name    string
	Params  []ValType
	Results []ValType
	Locals  []LocalGroup
	Body    *Fragment // instruction stream, without the trailing end marker
}

// Module is an ordered collection of functions ready to be framed as a
// binary module. Every function is exported under its name.
type Module struct {
	Funcs []*Function
}

// Encode serializes the module: the 8-byte header followed by the type,
// function, export and code sections in that fixed order.
func (m *Module) Encode() []byte {
	out := NewFragment()
	out.Raw(Magic)
	out.Raw(Version)
	out.Frag(Section(SectionType, m.typeSection()))
	out.Frag(Section(SectionFunction, m.functionSection()))
	out.Frag(Section(SectionExport, m.exportSection()))
	out.Frag(Section(SectionCode, m.codeSection()))
	return out.Bytes()
}

// Section frames contents as a section: a 1-byte id, the byte length of the
// contents as a ULEB128, then the contents.
func Section(id SectionID, contents *Fragment) *Fragment {
	f := NewFragment()
	f.Byte(byte(id))
	f.Uint(uint64(contents.Len()))
	f.Frag(contents)
	return f
}

// Vector frames a sequence: the element count as a ULEB128 followed by the
// concatenated encoded elements.
func Vector(count int, elements *Fragment) *Fragment {
	f := NewFragment()
	f.Uint(uint64(count))
	f.Frag(elements)
	return f
}

// typeSection encodes one function type per function, in order. The wisp
// type space is not deduplicated: function index i uses type index i.
func (m *Module) typeSection() *Fragment {
	elems := NewFragment()
	for _, fn := range m.Funcs {
		elems.Byte(FuncTypeTag)
		params := NewFragment()
		for _, p := range fn.Params {
			params.Byte(byte(p))
		}
		elems.Frag(Vector(len(fn.Params), params))
		results := NewFragment()
		for _, r := range fn.Results {
			results.Byte(byte(r))
		}
		elems.Frag(Vector(len(fn.Results), results))
	}
	return Vector(len(m.Funcs), elems)
}

func (m *Module) functionSection() *Fragment {
	elems := NewFragment()
	for i := range m.Funcs {
		elems.Uint(uint64(i))
	}
	return Vector(len(m.Funcs), elems)
}

func (m *Module) exportSection() *Fragment {
	elems := NewFragment()
	for i, fn := range m.Funcs {
		elems.Name(fn.Name)
		elems.Byte(ExportKindFunc)
		elems.Uint(uint64(i))
	}
	return Vector(len(m.Funcs), elems)
}

func (m *Module) codeSection() *Fragment {
	elems := NewFragment()
	for _, fn := range m.Funcs {
		body := EncodeBody(fn)
		elems.Uint(uint64(body.Len()))
		elems.Frag(body)
	}
	return Vector(len(m.Funcs), elems)
}

// EncodeBody encodes a function body: the run-length local declaration
// vector, the instruction stream, and the terminating end marker.
func EncodeBody(fn *Function) *Fragment {
	locals := NewFragment()
	for _, group := range fn.Locals {
		locals.Uint(uint64(group.Count))
		locals.Byte(byte(group.Type))
	}
	body := NewFragment()
	body.Frag(Vector(len(fn.Locals), locals))
	if fn.Body != nil {
		body.Frag(fn.Body)
	}
	body.Byte(OpEnd)
	return body
}
