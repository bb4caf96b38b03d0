package irc

// Casemapping folds a nick or channel name for identity comparisons.
// Which mapping applies is advertised by the server (ISUPPORT CASEMAPPING)
// and injected into every component that compares names.
type Casemapping func(string) string

// CasemapASCII folds A-Z to a-z.
func CasemapASCII(name string) string {
	var sb []byte
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			if sb == nil {
				sb = []byte(name)
			}
			sb[i] = c + 'a' - 'A'
		}
	}
	if sb == nil {
		return name
	}
	return string(sb)
}

// CasemapRFC1459 folds like ASCII and additionally maps the RFC 1459
// bracket equivalences: "[]\~" fold to "{}|^".
func CasemapRFC1459(name string) string {
	var sb []byte
	for i := 0; i < len(name); i++ {
		c := name[i]
		var f byte
		switch {
		case 'A' <= c && c <= 'Z':
			f = c + 'a' - 'A'
		case c == '[':
			f = '{'
		case c == ']':
			f = '}'
		case c == '\\':
			f = '|'
		case c == '~':
			f = '^'
		default:
			continue
		}
		if sb == nil {
			sb = []byte(name)
		}
		sb[i] = f
	}
	if sb == nil {
		return name
	}
	return string(sb)
}
