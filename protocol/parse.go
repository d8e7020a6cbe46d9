package protocol

// parseNumber parses a single token as spec.md §4.5 describes: an optional
// leading sign (accepted but not applied — addresses are never negative),
// an optional "0x"/"0X" prefix selecting base 16, else a leading "0"
// selecting base 8, else base 10. Parsing stops at the first character that
// is not a digit of the selected base; since the caller has already split
// the line on whitespace, trailing garbage within the token is not treated
// as an error, only as the end of the number. It reports false only when no
// digits could be consumed at all.
func parseNumber(tok string) (uint64, bool) {
	n := len(tok)
	if n == 0 {
		return 0, false
	}

	i := 0
	if tok[0] == '+' || tok[0] == '-' {
		i = 1
	}

	base := 10
	start := i
	if i < n && tok[i] == '0' {
		if i+1 < n && (tok[i+1] == 'x' || tok[i+1] == 'X') {
			base = 16
			i += 2
		} else {
			base = 8
			i++
		}
		start = i
	}

	j := i
	var v uint64
	for j < n {
		d := digitValue(tok[j])
		if d < 0 || d >= base {
			break
		}
		v = v*uint64(base) + uint64(d)
		j++
	}

	if j == start {
		// No digits followed the prefix. A bare "0" (decimal-looking octal
		// prefix with nothing after it) is a legitimate zero; anything else
		// with an unproductive prefix is malformed.
		if base == 8 && start == i && start > 0 && tok[start-1] == '0' {
			return 0, true
		}
		return 0, false
	}
	return v, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
