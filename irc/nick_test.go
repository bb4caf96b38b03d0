package irc

import (
	"reflect"
	"testing"
)

func TestParseNick(t *testing.T) {
	table := ParseUserModes("(qaohv)~&@%+")

	for _, tc := range []struct {
		full     string
		expected NickInfo
	}{
		{"dan", NickInfo{Nick: "dan"}},
		{":dan", NickInfo{Nick: "dan"}},
		{"@dan", NickInfo{Modes: []string{"o"}, Nick: "dan"}},
		{"~&@alice", NickInfo{Modes: []string{"q", "a", "o"}, Nick: "alice"}},
		{"+dan!d@host.example", NickInfo{
			Modes: []string{"v"}, Nick: "dan", Ident: "d", Hostname: "host.example",
		}},
		{":dan!d@host.example", NickInfo{
			Nick: "dan", Ident: "d", Hostname: "host.example",
		}},
		// an '@' without '!' is part of the nick region, not a hostname
		{"dan@host", NickInfo{Nick: "dan@host"}},
		// a '!' without '@' leaves ident and hostname empty
		{"dan!d", NickInfo{Nick: "dan"}},
		// symbols the table does not know stop the stripping
		{"*dan", NickInfo{Nick: "*dan"}},
	} {
		got := ParseNick(tc.full, table)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("ParseNick(%q): expected %+v, got %+v", tc.full, tc.expected, got)
		}
	}
}

func TestParseNickNoTable(t *testing.T) {
	got := ParseNick("@dan", nil)
	if got.Nick != "@dan" {
		t.Errorf("expected symbols kept without a table, got %+v", got)
	}
}

func TestCasemap(t *testing.T) {
	for _, tc := range []struct {
		mapping Casemapping
		in, out string
	}{
		{CasemapASCII, "Dan", "dan"},
		{CasemapASCII, "dan", "dan"},
		{CasemapASCII, "[Weird]", "[weird]"},
		{CasemapRFC1459, "[Weird]", "{weird}"},
		{CasemapRFC1459, `Nick\One~`, "nick|one^"},
		{CasemapRFC1459, "plain", "plain"},
	} {
		if got := tc.mapping(tc.in); got != tc.out {
			t.Errorf("casemap(%q): expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
