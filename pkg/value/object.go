package value

// ObjType discriminates the concrete shape of a heap object. tinylox only
// ever allocates strings — user-defined object types are a non-goal — but
// the tag is kept so the VM's object chain can be walked generically.
type ObjType uint8

const ObjTypeString ObjType = iota

// Obj is the header every heap allocation carries: a type tag plus the
// intrusive link to the VM's single object chain. Since ObjString is the
// only concrete object shape this language has, Obj doubles as that shape's
// header rather than sitting behind a separate indirection — a second
// object kind would need to split these, but user-defined object types
// are out of scope here.
type Obj struct {
	Type  ObjType
	Next  *Obj
	Chars []byte
	Hash  uint32
}

// ObjString is a conventional name for *Obj values of type ObjTypeString.
type ObjString = Obj

func (o *Obj) asString() *ObjString { return o }

// NewString builds a detached ObjString (not yet linked into any chain) by
// computing its FNV-1a hash. Callers that need chain membership go through
// heap.Heap.Intern instead of calling this directly.
func NewString(chars []byte) *ObjString {
	return &Obj{
		Type:  ObjTypeString,
		Chars: chars,
		Hash:  HashBytes(chars),
	}
}

// FNV-1a 32-bit hashing.
const (
	fnvOffsetBasis uint32 = 0x811C9DC5
	fnvPrime       uint32 = 0x01000193
)

// HashBytes computes the 32-bit FNV-1a hash of chars.
func HashBytes(chars []byte) uint32 {
	hash := fnvOffsetBasis
	for _, b := range chars {
		hash ^= uint32(b)
		hash *= fnvPrime
	}
	return hash
}
