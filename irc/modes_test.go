package irc

import (
	"reflect"
	"testing"
)

func TestParseUserModes(t *testing.T) {
	table := ParseUserModes("(qaohv)~&@%+")
	expected := []UserMode{
		{Symbol: "~", Flag: "q"},
		{Symbol: "&", Flag: "a"},
		{Symbol: "@", Flag: "o"},
		{Symbol: "%", Flag: "h"},
		{Symbol: "+", Flag: "v"},
	}
	if !reflect.DeepEqual(table, expected) {
		t.Errorf("expected %v, got %v", expected, table)
	}
	if got := Symbols(table); got != "~&@%+" {
		t.Errorf("expected symbols %q, got %q", "~&@%+", got)
	}
	if got := Flags(table); got != "qaohv" {
		t.Errorf("expected flags %q, got %q", "qaohv", got)
	}
}

func TestParseUserModesMalformed(t *testing.T) {
	for _, prefix := range []string{
		"",
		"()",
		"(ov)@",  // halves of different lengths
		"(o)@+",  // halves of different lengths
		"ov)@+",  // tolerated: '(' optional
		"(ov @+", // missing ')'
	} {
		table := ParseUserModes(prefix)
		if prefix == "ov)@+" {
			if len(table) != 2 {
				t.Errorf("%q: expected 2 entries, got %v", prefix, table)
			}
			continue
		}
		if table != nil {
			t.Errorf("%q: expected nil table, got %v", prefix, table)
		}
	}
}

func TestParseChannelModes(t *testing.T) {
	spec := ParseChannelModes("beI,k,l,imnpst")
	expected := ChannelModeSpec{A: "beI", B: "k", C: "l", D: "imnpst"}
	if spec != expected {
		t.Errorf("expected %+v, got %+v", expected, spec)
	}

	// missing groups default to empty
	if got := ParseChannelModes("b,k"); got != (ChannelModeSpec{A: "b", B: "k"}) {
		t.Errorf("unexpected spec for short value: %+v", got)
	}

	// a fifth group is reserved and must not leak into A-D
	if got := ParseChannelModes("b,k,l,i,XYZ"); got != (ChannelModeSpec{A: "b", B: "k", C: "l", D: "i"}) {
		t.Errorf("unexpected spec with reserved group: %+v", got)
	}
}

func TestTypeOf(t *testing.T) {
	spec := ParseChannelModes("beI,k,l,imnpst")
	for mode, expected := range map[byte]byte{
		'b': 'A',
		'k': 'B',
		'l': 'C',
		'i': 'D',
		't': 'D',
		'z': 'U',
	} {
		if got := spec.TypeOf(mode); got != expected {
			t.Errorf("TypeOf(%c): expected %c, got %c", mode, expected, got)
		}
	}
}

func TestExpandModeChange(t *testing.T) {
	spec := ParseChannelModes("beI,k,l,imnpst")

	for _, tc := range []struct {
		flags    string
		args     []string
		expected []ModeChange
	}{
		{
			flags: "+o", args: []string{"dan"},
			expected: []ModeChange{{Enable: true, Mode: "o", Param: "dan"}},
		},
		{
			flags: "+ov-b", args: []string{"dan", "alice", "*!*@spam"},
			expected: []ModeChange{
				{Enable: true, Mode: "o", Param: "dan"},
				{Enable: true, Mode: "v", Param: "alice"},
				{Enable: false, Mode: "b", Param: "*!*@spam"},
			},
		},
		{
			// type C consumes an argument only when enabling
			flags: "+l", args: []string{"40"},
			expected: []ModeChange{{Enable: true, Mode: "l", Param: "40"}},
		},
		{
			flags: "-l", args: nil,
			expected: []ModeChange{{Enable: false, Mode: "l"}},
		},
		{
			// type D never consumes
			flags: "+nt-s", args: []string{"stray"},
			expected: []ModeChange{
				{Enable: true, Mode: "n"},
				{Enable: true, Mode: "t"},
				{Enable: false, Mode: "s"},
			},
		},
		{
			// unknown letters are dropped without consuming an argument
			flags: "+zo", args: []string{"dan"},
			expected: []ModeChange{{Enable: true, Mode: "o", Param: "dan"}},
		},
		{
			// expansion stops when arguments run out
			flags: "+oo", args: []string{"dan"},
			expected: []ModeChange{{Enable: true, Mode: "o", Param: "dan"}},
		},
	} {
		got := ExpandModeChange(tc.flags, tc.args, spec, "ov")
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("ExpandModeChange(%q, %v): expected %v, got %v", tc.flags, tc.args, tc.expected, got)
		}
	}
}

func TestRank(t *testing.T) {
	table := ParseUserModes("(qaohv)~&@%+")

	if got := Rank(nil, table); got != NoPermission {
		t.Errorf("expected no permission for empty flags, got %d", got)
	}
	if got := Rank([]string{"x"}, table); got != NoPermission {
		t.Errorf("expected no permission for unknown flag, got %d", got)
	}

	// ranks decrease strictly down the table
	prev := rankBase + 1
	for _, m := range table {
		r := Rank([]string{m.Flag}, table)
		if r <= NoPermission || r >= prev {
			t.Errorf("rank of %q not strictly decreasing: %d (prev %d)", m.Flag, r, prev)
		}
		prev = r
	}

	// the highest flag wins regardless of order
	if a, b := Rank([]string{"v", "o"}, table), Rank([]string{"o", "v"}, table); a != b || a != Rank([]string{"o"}, table) {
		t.Errorf("expected the highest flag to win: %d vs %d", a, b)
	}
}
