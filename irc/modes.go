package irc

import "strings"

// UserMode is one entry of the server's ranked PREFIX table. The table
// order encodes privilege rank: index 0 is the highest.
type UserMode struct {
	Symbol string // display symbol, e.g. "@"
	Flag   string // channel mode letter, e.g. "o"
}

// ParseUserModes decodes an ISUPPORT PREFIX value of the form
// "(yqaohv)!~&@%+" into the ranked mode table. The two halves must have
// equal length; on mismatch it fails closed and returns an empty table
// rather than guessing an alignment.
func ParseUserModes(prefix string) []UserMode {
	prefix = strings.TrimPrefix(prefix, "(")
	modes, symbols, found := strings.Cut(prefix, ")")
	if !found || len(modes) != len(symbols) || len(modes) == 0 {
		return nil
	}
	table := make([]UserMode, len(modes))
	for i := 0; i < len(modes); i++ {
		table[i] = UserMode{
			Symbol: symbols[i : i+1],
			Flag:   modes[i : i+1],
		}
	}
	return table
}

// Symbols returns the concatenated display symbols in rank order.
func Symbols(table []UserMode) string {
	var sb strings.Builder
	for _, m := range table {
		sb.WriteString(m.Symbol)
	}
	return sb.String()
}

// Flags returns the concatenated mode letters in rank order.
func Flags(table []UserMode) string {
	var sb strings.Builder
	for _, m := range table {
		sb.WriteString(m.Flag)
	}
	return sb.String()
}

// ChannelModeSpec classifies channel mode letters by parameter behavior,
// per the ISUPPORT CHANMODES categories:
//
//	A: list-modifying, always takes a parameter
//	B: setting, always takes a parameter
//	C: setting, takes a parameter only when set
//	D: setting, never takes a parameter
type ChannelModeSpec struct {
	A, B, C, D string
}

// ParseChannelModes decodes an ISUPPORT CHANMODES value ("A,B,C,D").
// Missing groups default to empty. A fifth or later group is reserved for
// future mode types and is not merged into A-D.
func ParseChannelModes(s string) ChannelModeSpec {
	var spec ChannelModeSpec
	groups := strings.Split(s, ",")
	dst := []*string{&spec.A, &spec.B, &spec.C, &spec.D}
	for i := 0; i < len(dst) && i < len(groups); i++ {
		*dst[i] = groups[i]
	}
	return spec
}

// TypeOf returns 'A'..'D' for a classified mode letter, or 'U' for a
// letter the server never advertised. Type-U modes have unknown parameter
// arity and must not be type-assumed.
func (spec ChannelModeSpec) TypeOf(mode byte) byte {
	switch {
	case strings.IndexByte(spec.A, mode) >= 0:
		return 'A'
	case strings.IndexByte(spec.B, mode) >= 0:
		return 'B'
	case strings.IndexByte(spec.C, mode) >= 0:
		return 'C'
	case strings.IndexByte(spec.D, mode) >= 0:
		return 'D'
	}
	return 'U'
}

// ModeChange is a single expanded channel mode change.
type ModeChange struct {
	Enable bool
	Mode   string // single mode letter
	Param  string // "" when the mode takes none
}

// ExpandModeChange expands a MODE flag string and its arguments into
// individual changes, consuming arguments according to the CHANMODES
// classification. Membership modes (prefixModes, e.g. "ov") always take a
// nick argument. Type-U letters are dropped without consuming an argument.
func ExpandModeChange(flags string, args []string, spec ChannelModeSpec, prefixModes string) []ModeChange {
	var changes []ModeChange
	enable := true
	for i := 0; i < len(flags); i++ {
		f := flags[i]
		switch f {
		case '+':
			enable = true
			continue
		case '-':
			enable = false
			continue
		}

		needsArg := false
		if strings.IndexByte(prefixModes, f) >= 0 {
			needsArg = true
		} else {
			switch spec.TypeOf(f) {
			case 'A', 'B':
				needsArg = true
			case 'C':
				needsArg = enable
			case 'D':
				needsArg = false
			default:
				continue
			}
		}

		change := ModeChange{Enable: enable, Mode: string(f)}
		if needsArg {
			if len(args) == 0 {
				// ran out of arguments, the rest cannot be trusted
				return changes
			}
			change.Param = args[0]
			args = args[1:]
		}
		changes = append(changes, change)
	}
	return changes
}
