package codec

// putVarString appends a length-prefixed (single byte, max 255) string
// to buf, the variable-data convention used for every symbol/string
// field in this catalogue.
func putVarString(buf []byte, s string) []byte {
	if len(s) > 255 {
		s = s[:255]
	}
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// readVarString reads a length-prefixed string from the front of buf,
// returning the string and the remaining bytes.
func readVarString(buf []byte) (string, []byte, error) {
	if len(buf) < 1 {
		return "", nil, ErrShortBuffer
	}
	n := int(buf[0])
	buf = buf[1:]
	if len(buf) < n {
		return "", nil, ErrShortBuffer
	}
	return string(buf[:n]), buf[n:], nil
}
