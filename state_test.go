package core

import (
	"reflect"
	"testing"

	"github.com/Simple-Irc-Client/core/irc"
)

func TestStoreJoinPart(t *testing.T) {
	s := NewStore()

	u := s.Join("dan", "d", "host.example", "#go")
	if u == nil || s.GetUser("dan") != u {
		t.Fatal("expected the user to be created on first join")
	}
	if u.Ident != "d" || u.Hostname != "host.example" {
		t.Errorf("unexpected identity: %+v", u)
	}

	// joining again is idempotent
	again := s.Join("dan", "", "", "#go")
	if again != u || len(u.Channels) != 1 {
		t.Errorf("expected one membership after duplicate join, got %d", len(u.Channels))
	}

	s.Join("dan", "", "", "#irc")
	if got := s.UserChannels("dan"); !reflect.DeepEqual(got, []string{"#go", "#irc"}) {
		t.Errorf("unexpected channels: %v", got)
	}

	s.Part("dan", "#go")
	if s.GetUser("dan") == nil {
		t.Fatal("expected the user to survive while memberships remain")
	}
	s.Part("dan", "#irc")
	if s.GetUser("dan") != nil {
		t.Error("expected the user to vanish with its last membership")
	}
}

func TestStoreQuit(t *testing.T) {
	s := NewStore()
	s.Join("dan", "d", "h", "#go")
	s.Join("dan", "", "", "#irc")

	channels := s.Quit("dan")
	if !reflect.DeepEqual(channels, []string{"#go", "#irc"}) {
		t.Errorf("expected membership-ordered channels, got %v", channels)
	}
	if s.GetUser("dan") != nil {
		t.Error("expected the user to be removed")
	}
	if s.Quit("ghost") != nil {
		t.Error("expected nil for an unknown nick")
	}
}

func TestStoreRename(t *testing.T) {
	s := NewStore()
	s.Join("dan", "d", "h", "#go", "o")
	s.SetUserFlag("dan", true, "away")

	if !s.Rename("dan", "dan_") {
		t.Fatal("expected the rename to succeed")
	}
	if s.GetUser("dan") != nil {
		t.Error("expected the old nick to be gone")
	}
	u := s.GetUser("dan_")
	if u == nil {
		t.Fatal("expected the user under its new nick")
	}
	if !u.HasFlag("away") {
		t.Error("expected global flags to survive the rename")
	}
	uc := s.Membership("dan_", "#go")
	if uc == nil {
		t.Fatal("expected the membership to survive the rename")
	}
	if _, ok := uc.Flags["o"]; !ok || uc.MaxPermission != irc.Rank([]string{"o"}, s.UserModes()) {
		t.Errorf("expected channel flags and rank to survive, got %+v", uc)
	}

	if s.Rename("ghost", "spectre") {
		t.Error("expected renaming an unknown nick to report false")
	}
}

func TestStoreChannelFlags(t *testing.T) {
	s := NewStore()
	s.SetUserModes(irc.ParseUserModes("(qaohv)~&@%+"))
	s.Join("dan", "d", "h", "#go", "o", "v")

	uc := s.Membership("dan", "#go")
	if uc.MaxPermission != 254 {
		t.Fatalf("expected rank 254 for op, got %d", uc.MaxPermission)
	}

	// dropping op must re-rank to voice within the same transition
	s.SetChannelFlag("dan", "#go", false, "o")
	if uc.MaxPermission != 252 {
		t.Errorf("expected rank 252 for voice, got %d", uc.MaxPermission)
	}

	s.SetChannelFlag("dan", "#go", false, "v")
	if uc.MaxPermission != irc.NoPermission {
		t.Errorf("expected no permission, got %d", uc.MaxPermission)
	}

	s.SetChannelFlag("dan", "#go", true, "o")
	if uc.MaxPermission != 254 {
		t.Errorf("expected rank 254 after regaining op, got %d", uc.MaxPermission)
	}

	// mutations against unknowns are silent no-ops
	s.SetChannelFlag("ghost", "#go", true, "o")
	s.SetChannelFlag("dan", "#nowhere", true, "o")
}

func TestStoreSetUserModesRecomputes(t *testing.T) {
	s := NewStore()
	s.Join("dan", "d", "h", "#go", "o")
	before := s.Membership("dan", "#go").MaxPermission
	if before == irc.NoPermission {
		t.Fatalf("expected a ranked op under the default table")
	}

	// a longer table shifts every cached rank
	s.SetUserModes(irc.ParseUserModes("(qaohv)~&@%+"))
	if got := s.Membership("dan", "#go").MaxPermission; got != 254 {
		t.Errorf("expected recomputed rank 254, got %d", got)
	}

	// a malformed table degrades everyone to NoPermission
	s.SetUserModes(nil)
	if got := s.Membership("dan", "#go").MaxPermission; got != irc.NoPermission {
		t.Errorf("expected rank to degrade, got %d", got)
	}
}

func TestStoreClearChannel(t *testing.T) {
	s := NewStore()
	s.Join("dan", "d", "h", "#go")
	s.Join("dan", "", "", "#irc")
	s.Join("eve", "e", "h", "#go")

	s.ClearChannel("#go")
	if s.GetUser("eve") != nil {
		t.Error("expected eve to vanish with her only channel")
	}
	if got := s.UserChannels("dan"); !reflect.DeepEqual(got, []string{"#irc"}) {
		t.Errorf("expected dan to keep #irc only, got %v", got)
	}
}

func TestStoreCasemap(t *testing.T) {
	s := NewStore()
	s.Join("Dan", "d", "h", "#Go")
	if s.GetUser("dan") == nil {
		t.Error("expected ascii-folded lookups to match")
	}
	if s.Membership("DAN", "#gO") == nil {
		t.Error("expected channel names to fold as well")
	}

	s = NewStore()
	s.SetCasemap(irc.CasemapRFC1459)
	s.Join("[Dan]", "d", "h", "#go")
	if s.GetUser("{dan}") == nil {
		t.Error("expected rfc1459 bracket folding to match")
	}
}

func TestUsersByPermission(t *testing.T) {
	s := NewStore()
	s.SetUserModes(irc.ParseUserModes("(qaohv)~&@%+"))
	s.Join("zoe", "z", "h", "#go", "v")
	s.Join("adam", "a", "h", "#go")
	s.Join("Mallory", "m", "h", "#go", "o")
	s.Join("bob", "b", "h", "#go", "o")
	s.Join("quinn", "q", "h", "#go", "q")

	var nicks []string
	for _, u := range s.UsersByPermission("#go") {
		nicks = append(nicks, u.Nick)
	}
	expected := []string{"quinn", "bob", "Mallory", "zoe", "adam"}
	if !reflect.DeepEqual(nicks, expected) {
		t.Errorf("expected %v, got %v", expected, nicks)
	}

	nicks = nil
	for _, u := range s.UsersAlphabetical("#go") {
		nicks = append(nicks, u.Nick)
	}
	expected = []string{"adam", "bob", "Mallory", "quinn", "zoe"}
	if !reflect.DeepEqual(nicks, expected) {
		t.Errorf("expected %v, got %v", expected, nicks)
	}
}
