package numfmt

// IsHexadecimal reports whether s holds only hex digits in either case.
// The empty string qualifies; a "0x" prefix does not.
func IsHexadecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
