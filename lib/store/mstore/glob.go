package mstore

// matchGlob reports whether s matches the server-style glob pattern. The
// syntax is the MATCH syntax of the SCAN command: '*' matches any sequence,
// '?' any single byte, '[...]' a class with ranges and '^' negation, and '\'
// escapes the next byte. Unlike path.Match, no byte is special-cased as a
// separator.
func matchGlob(pattern, s string) bool {
	px, sx := 0, 0
	starPx, starSx := -1, -1

	for sx < len(s) {
		if px < len(pattern) {
			switch c := pattern[px]; c {
			case '*':
				// Record the star position for backtracking, try the
				// shortest match first.
				starPx, starSx = px, sx
				px++
				continue
			case '?':
				px++
				sx++
				continue
			case '\\':
				if px+1 < len(pattern) && pattern[px+1] == s[sx] {
					px += 2
					sx++
					continue
				}
			case '[':
				if ok, next := matchClass(pattern, px, s[sx]); ok {
					px = next
					sx++
					continue
				}
			default:
				if c == s[sx] {
					px++
					sx++
					continue
				}
			}
		}
		// Mismatch: extend the last '*' by one byte, or fail.
		if starPx >= 0 {
			starSx++
			sx = starSx
			px = starPx + 1
			continue
		}
		return false
	}

	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}

// matchClass matches s[sx] against the character class starting at
// pattern[px] (which is '['). It returns whether the byte matched and the
// index just past the closing ']'. An unterminated class never matches.
func matchClass(pattern string, px int, ch byte) (bool, int) {
	i := px + 1
	negate := false
	if i < len(pattern) && pattern[i] == '^' {
		negate = true
		i++
	}

	matched := false
	for i < len(pattern) && pattern[i] != ']' {
		var lo byte
		if pattern[i] == '\\' && i+1 < len(pattern) {
			i++
		}
		lo = pattern[i]
		i++

		hi := lo
		if i+1 < len(pattern) && pattern[i] == '-' && pattern[i+1] != ']' {
			i++
			if pattern[i] == '\\' && i+1 < len(pattern) {
				i++
			}
			hi = pattern[i]
			i++
		}
		if lo <= ch && ch <= hi {
			matched = true
		}
	}
	if i >= len(pattern) {
		return false, px
	}
	if negate {
		matched = !matched
	}
	return matched, i + 1
}
