package gpulayout

// Bool is a device boolean: a 32-bit value where zero is false and any
// other bit pattern is true. Host bool fields are converted to and from
// Bool automatically; use Bool directly to keep the raw device value.
type Bool uint32

// NewBool returns 1 for true and 0 for false.
func NewBool(b bool) Bool {
	if b {
		return 1
	}
	return 0
}

// Bool reports whether b is nonzero. Shaders may write values other than
// 1 for true.
func (b Bool) Bool() bool {
	return b != 0
}

func (b Bool) String() string {
	if b.Bool() {
		return "true"
	}
	return "false"
}

func (Bool) deviceType() Type { return TypeBool }
