package core

import (
	"time"

	"golang.org/x/time/rate"
)

// Values taken by the "+typing" client tag. TypingUnspec means the value
// or tag is absent.
const (
	TypingUnspec = iota
	TypingActive
	TypingPaused
	TypingDone
)

type typingStamp struct {
	last  time.Time
	typ   int
	limit *rate.Limiter
}

// Typing notifies the target that the local user is typing. Notifications
// are rate-limited and suppressed entirely when disabled in the config.
func (c *Client) Typing(target string) {
	if !c.cfg.Typings {
		return
	}
	targetCf := c.casemap(target)
	now := time.Now()
	t, ok := c.typingStamps[targetCf]
	if ok && ((t.typ == TypingActive && now.Sub(t.last).Seconds() < 3.0) || !t.limit.Allow()) {
		return
	}
	if !ok {
		t.limit = rate.NewLimiter(rate.Limit(1.0/3.0), 5)
		t.limit.Reserve() // will always be OK
	}
	c.typingStamps[targetCf] = typingStamp{
		last:  now,
		typ:   TypingActive,
		limit: t.limit,
	}
	c.sendLine("@+typing=active TAGMSG " + target)
}

// TypingStop notifies the target that the local user stopped typing.
func (c *Client) TypingStop(target string) {
	if !c.cfg.Typings {
		return
	}
	targetCf := c.casemap(target)
	now := time.Now()
	t, ok := c.typingStamps[targetCf]
	if ok && (t.typ == TypingDone || !t.limit.Allow()) {
		// don't send +typing=done twice in a row
		return
	}
	if !ok {
		t.limit = rate.NewLimiter(rate.Limit(1), 5)
		t.limit.Reserve() // will always be OK
	}
	c.typingStamps[targetCf] = typingStamp{
		last:  now,
		typ:   TypingDone,
		limit: t.limit,
	}
	c.sendLine("@+typing=done TAGMSG " + target)
}
