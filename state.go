package core

import (
	"sort"

	"github.com/Simple-Irc-Client/core/irc"
)

// UserChannel is one channel membership of a known user.
type UserChannel struct {
	Name  string
	Flags map[string]struct{} // channel mode letters, e.g. "o", "v"

	// MaxPermission is derived from Flags against the server's ranked
	// PREFIX table. It is recomputed inside every mutation that touches
	// Flags, never lazily, so sorted reads cannot observe a stale rank.
	MaxPermission int
}

// User is a known IRC user, alive as long as it shares at least one
// channel with the local client.
type User struct {
	Nick     string
	Ident    string
	Hostname string
	Flags    map[string]struct{} // global flags, e.g. "away"
	Channels []*UserChannel      // ordered by first observation
}

// HasFlag reports whether a global flag is set on the user.
func (u *User) HasFlag(flag string) bool {
	_, ok := u.Flags[flag]
	return ok
}

// Store is the authoritative in-memory model of known users and their
// per-channel memberships and flags. It is mutated exclusively through
// JOIN/PART/QUIT/NICK/KICK/MODE events, one at a time; mutations against
// unknown nicks or channels are silent no-ops because IRC event ordering
// races (a MODE racing a PART) are expected and recoverable.
type Store struct {
	casemap   irc.Casemapping
	userModes []irc.UserMode
	chanModes irc.ChannelModeSpec
	users     map[string]*User // keyed by casemapped nick
}

func NewStore() *Store {
	return &Store{
		casemap:   irc.CasemapASCII,
		userModes: irc.ParseUserModes("(ov)@+"),
		chanModes: irc.ParseChannelModes("b,k,l,imnpst"),
		users:     map[string]*User{},
	}
}

func (s *Store) SetCasemap(fn irc.Casemapping) {
	if fn != nil {
		s.casemap = fn
	}
}

// SetUserModes installs the server's ranked PREFIX table. An empty table
// (malformed ISUPPORT) degrades ranking to NoPermission for everyone but
// does not halt processing; existing cached ranks are recomputed.
func (s *Store) SetUserModes(table []irc.UserMode) {
	s.userModes = table
	for _, u := range s.users {
		for _, uc := range u.Channels {
			uc.MaxPermission = irc.Rank(flagList(uc.Flags), table)
		}
	}
}

func (s *Store) UserModes() []irc.UserMode { return s.userModes }

func (s *Store) SetChannelModes(spec irc.ChannelModeSpec) { s.chanModes = spec }

func (s *Store) ChannelModes() irc.ChannelModeSpec { return s.chanModes }

// GetUser returns the known user with the given nick, or nil.
func (s *Store) GetUser(nick string) *User {
	return s.users[s.casemap(nick)]
}

func (u *User) channel(name string, casemap irc.Casemapping) *UserChannel {
	nameCf := casemap(name)
	for _, uc := range u.Channels {
		if casemap(uc.Name) == nameCf {
			return uc
		}
	}
	return nil
}

// Join records a channel membership, creating the user on first
// observation. Joining an already-held channel is idempotent. The
// optional flags seed the membership's channel modes (NAMES prefixes).
func (s *Store) Join(nick, ident, hostname, channel string, flags ...string) *User {
	nickCf := s.casemap(nick)
	u, ok := s.users[nickCf]
	if !ok {
		u = &User{
			Nick:     nick,
			Ident:    ident,
			Hostname: hostname,
			Flags:    map[string]struct{}{},
		}
		s.users[nickCf] = u
	}
	if ident != "" {
		u.Ident = ident
	}
	if hostname != "" {
		u.Hostname = hostname
	}

	uc := u.channel(channel, s.casemap)
	if uc == nil {
		uc = &UserChannel{
			Name:          channel,
			Flags:         map[string]struct{}{},
			MaxPermission: irc.NoPermission,
		}
		u.Channels = append(u.Channels, uc)
	}
	for _, f := range flags {
		uc.Flags[f] = struct{}{}
	}
	uc.MaxPermission = irc.Rank(flagList(uc.Flags), s.userModes)
	return u
}

// Part removes one channel membership. Removing the last membership
// removes the user entirely, atomically; a user with no channels never
// survives a mutation.
func (s *Store) Part(nick, channel string) {
	nickCf := s.casemap(nick)
	u, ok := s.users[nickCf]
	if !ok {
		return
	}
	channelCf := s.casemap(channel)
	for i, uc := range u.Channels {
		if s.casemap(uc.Name) == channelCf {
			u.Channels = append(u.Channels[:i], u.Channels[i+1:]...)
			break
		}
	}
	if len(u.Channels) == 0 {
		delete(s.users, nickCf)
	}
}

// Quit removes the user and returns the names of the channels it was in,
// in membership order, so the caller can append quit notices while the
// user's display identity is still resolvable.
func (s *Store) Quit(nick string) []string {
	nickCf := s.casemap(nick)
	u, ok := s.users[nickCf]
	if !ok {
		return nil
	}
	channels := make([]string, 0, len(u.Channels))
	for _, uc := range u.Channels {
		channels = append(channels, uc.Name)
	}
	delete(s.users, nickCf)
	return channels
}

// Rename renames a user in place, preserving every channel membership and
// flag. It reports whether the user was known.
func (s *Store) Rename(from, to string) bool {
	fromCf := s.casemap(from)
	u, ok := s.users[fromCf]
	if !ok {
		return false
	}
	delete(s.users, fromCf)
	u.Nick = to
	s.users[s.casemap(to)] = u
	return true
}

// SetChannelFlag sets or clears one channel mode letter on a membership
// and recomputes its cached rank within the same transition.
func (s *Store) SetChannelFlag(nick, channel string, enable bool, flag string) {
	u, ok := s.users[s.casemap(nick)]
	if !ok {
		return
	}
	uc := u.channel(channel, s.casemap)
	if uc == nil {
		return
	}
	if enable {
		uc.Flags[flag] = struct{}{}
	} else {
		delete(uc.Flags, flag)
	}
	uc.MaxPermission = irc.Rank(flagList(uc.Flags), s.userModes)
}

// SetUserFlag sets or clears a global flag such as "away".
func (s *Store) SetUserFlag(nick string, enable bool, flag string) {
	u, ok := s.users[s.casemap(nick)]
	if !ok {
		return
	}
	if enable {
		u.Flags[flag] = struct{}{}
	} else {
		delete(u.Flags, flag)
	}
}

// ClearChannel drops every user's membership of the given channel. Used
// when the local client parts or is kicked: no further server traffic will
// arrive for users it no longer shares a channel with.
func (s *Store) ClearChannel(channel string) {
	channelCf := s.casemap(channel)
	for nickCf, u := range s.users {
		for i, uc := range u.Channels {
			if s.casemap(uc.Name) == channelCf {
				u.Channels = append(u.Channels[:i], u.Channels[i+1:]...)
				break
			}
		}
		if len(u.Channels) == 0 {
			delete(s.users, nickCf)
		}
	}
}

// UserChannels returns the channel names the user is in, or nil.
func (s *Store) UserChannels(nick string) []string {
	u, ok := s.users[s.casemap(nick)]
	if !ok {
		return nil
	}
	channels := make([]string, 0, len(u.Channels))
	for _, uc := range u.Channels {
		channels = append(channels, uc.Name)
	}
	return channels
}

// Membership returns the user's membership of the given channel, or nil.
func (s *Store) Membership(nick, channel string) *UserChannel {
	u, ok := s.users[s.casemap(nick)]
	if !ok {
		return nil
	}
	return u.channel(channel, s.casemap)
}

func (s *Store) channelUsers(channel string) []*User {
	channelCf := s.casemap(channel)
	var users []*User
	for _, u := range s.users {
		if uc := u.channel(channel, s.casemap); uc != nil && s.casemap(uc.Name) == channelCf {
			users = append(users, u)
		}
	}
	return users
}

// UsersByPermission returns the users of a channel ordered by descending
// permission rank, ties broken by case-insensitive nick. The result is
// recomputed from current state on every call.
func (s *Store) UsersByPermission(channel string) []*User {
	users := s.channelUsers(channel)
	sort.Slice(users, func(i, j int) bool {
		pi := users[i].channel(channel, s.casemap).MaxPermission
		pj := users[j].channel(channel, s.casemap).MaxPermission
		if pi != pj {
			return pi > pj
		}
		return s.casemap(users[i].Nick) < s.casemap(users[j].Nick)
	})
	return users
}

// UsersAlphabetical returns the users of a channel ordered by
// case-insensitive nick, for autocompletion.
func (s *Store) UsersAlphabetical(channel string) []*User {
	users := s.channelUsers(channel)
	sort.Slice(users, func(i, j int) bool {
		return s.casemap(users[i].Nick) < s.casemap(users[j].Nick)
	})
	return users
}

func flagList(flags map[string]struct{}) []string {
	if len(flags) == 0 {
		return nil
	}
	list := make([]string, 0, len(flags))
	for f := range flags {
		list = append(list, f)
	}
	return list
}
