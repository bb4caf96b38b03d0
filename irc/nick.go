package irc

import "strings"

// NickInfo is a decoded nickname token, possibly prefixed with membership
// symbols and suffixed with an ident/hostname pair (nick!ident@hostname).
type NickInfo struct {
	Modes    []string // mode letters matching stripped leading symbols
	Nick     string
	Ident    string
	Hostname string
}

// ParseNick decodes a possibly-prefixed full nickname. Leading membership
// symbols are stripped in server-table order and reported as their mode
// letters; the ident and hostname are filled only when both the '!' and
// '@' delimiters are present.
func ParseNick(full string, table []UserMode) NickInfo {
	var info NickInfo
	full = strings.TrimPrefix(full, ":")

	bang := strings.LastIndexByte(full, '!')
	at := strings.LastIndexByte(full, '@')

	region := full
	if bang >= 0 {
		region = full[:bang]
	}
	if bang >= 0 && at > bang {
		info.Ident = full[bang+1 : at]
		info.Hostname = full[at+1:]
	}

strip:
	for len(region) > 0 {
		for _, m := range table {
			if strings.HasPrefix(region, m.Symbol) {
				info.Modes = append(info.Modes, m.Flag)
				region = region[len(m.Symbol):]
				continue strip
			}
		}
		break
	}
	info.Nick = region
	return info
}
