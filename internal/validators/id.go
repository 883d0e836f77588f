package validators

// MaxIDLength matches the width of the id columns.
const MaxIDLength = 64

// IsValidID accepts the opaque ids handed out by the identity provider:
// 1 to 64 ASCII letters, digits, '.', '_' or '-'.
func IsValidID(id string) bool {
	if id == "" || len(id) > MaxIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
