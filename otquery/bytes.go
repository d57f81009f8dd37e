package otquery

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func putU16(b []byte, v uint16) {
	b[0], b[1] = byte(v>>8), byte(v)
}

// fixed converts an OpenType Fixed (16.16) value.
func fixed(b []byte) float64 {
	return float64(int32(u32(b))) / 65536
}
