package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/Simple-Irc-Client/core/irc"
)

const lineLen = 512

// Client owns the protocol-and-state core for one server connection: the
// user/channel store, the buffer projection and the command dispatcher.
// It consumes raw inbound lines and user input, and emits outbound wire
// lines through the send function supplied by the transport. All calls
// are synchronous; inbound lines must be handled in arrival order.
type Client struct {
	cfg  Config
	send func(line string)

	store   *Store
	buffers *BufferList

	nick      string
	casemap   irc.Casemapping
	chantypes string
	network   string

	typingStamps map[string]typingStamp
}

func NewClient(cfg Config, send func(line string)) *Client {
	c := &Client{
		cfg:          cfg,
		send:         send,
		store:        NewStore(),
		buffers:      NewBufferList(),
		nick:         cfg.Nick,
		casemap:      cfg.Casemap(),
		chantypes:    "#&",
		typingStamps: map[string]typingStamp{},
	}
	c.store.SetCasemap(c.casemap)
	c.buffers.SetCasemap(c.casemap)
	return c
}

// Register emits the registration burst. The transport calls it once the
// connection is established.
func (c *Client) Register() {
	c.sendLine("NICK " + c.cfg.Nick)
	c.sendLine(fmt.Sprintf("USER %s 0 * :%s", c.cfg.User, c.cfg.Real))
}

func (c *Client) Nick() string { return c.nick }

// Network returns the server-advertised network name, if any.
func (c *Client) Network() string { return c.network }

func (c *Client) Store() *Store { return c.store }

func (c *Client) Buffers() *BufferList { return c.buffers }

func (c *Client) IsMe(nick string) bool {
	return c.casemap(nick) == c.casemap(c.nick)
}

// IsChannel reports whether a name is a real channel name, per the
// server-advertised CHANTYPES prefixes.
func (c *Client) IsChannel(name string) bool {
	return strings.IndexAny(name, c.chantypes) == 0
}

func (c *Client) sendLine(line string) {
	if c.send != nil {
		c.send(line)
	}
}

// SendRaw transmits wire lines. A newline joins multiple lines; they are
// split here and handed to the transport one by one, in order.
func (c *Client) SendRaw(lines string) {
	if lines == "" {
		return
	}
	for _, line := range strings.Split(lines, "\n") {
		if line != "" {
			c.sendLine(line)
		}
	}
}

// HandleInput processes one user-typed line in the context of a buffer.
// Plain text becomes a message to that buffer; slash input goes through
// the dispatcher and its output (or literal fallback) is sent raw.
func (c *Client) HandleInput(buffer, content string) {
	content = lineBreaks.Replace(content)
	if content == "" {
		return
	}
	if content[0] != '/' {
		c.PrivMsg(buffer, content)
		return
	}
	c.SendRaw(c.Dispatch(buffer, content))
}

// PrivMsg sends a message to a target, chunked to the 512-byte protocol
// line limit, and echoes it into the local buffer.
func (c *Client) PrivMsg(target, content string) {
	maxLen := lineLen -
		len(":!@ PRIVMSG  :\r\n") -
		len(c.nick) -
		len(c.cfg.User) -
		len("255.255.255.255") -
		len(target)
	for _, chunk := range splitChunks(content, maxLen) {
		c.sendLine(fmt.Sprintf("PRIVMSG %s :%s", target, chunk))
	}
	delete(c.typingStamps, c.casemap(target))

	ref := PlainRef(c.nick)
	if u := c.store.GetUser(c.nick); u != nil {
		ref = UserRef(u)
	}
	c.buffers.Append(target, c.newMessage(ref, target, content, MessageDefault))
}

// splitChunks cuts s into chunks of at most chunkLen bytes without
// breaking grapheme clusters.
func splitChunks(s string, chunkLen int) (chunks []string) {
	if chunkLen <= 0 || len(s) <= chunkLen {
		return []string{s}
	}
	g := uniseg.NewGraphemes(s)
	b := 0
	n := 0
	for g.Next() {
		cw := len(g.Bytes())
		if n+cw > chunkLen {
			chunks = append(chunks, s[b:b+n])
			b += n
			n = cw
			continue
		}
		n += cw
	}
	if b < len(s) {
		chunks = append(chunks, s[b:])
	}
	return
}

func (c *Client) newMessage(ref NickRef, target, text string, cat MessageCategory) Message {
	return c.newMessageAt(ref, target, text, cat, time.Now())
}

func (c *Client) newMessageAt(ref NickRef, target, text string, cat MessageCategory, at time.Time) Message {
	return Message{
		ID:       uuid.NewString(),
		Text:     text,
		Nick:     ref,
		Target:   target,
		Time:     at,
		Category: cat,
		Color:    NickColor(ref.String()),
	}
}

// nickRef resolves a nick against the store while the user is still
// known, falling back to the plain string.
func (c *Client) nickRef(nick string) NickRef {
	if u := c.store.GetUser(nick); u != nil {
		return UserRef(u)
	}
	return PlainRef(nick)
}

// HandleLine runs one raw inbound protocol line through the parser, the
// state store and the buffer projection. Malformed lines are no-ops; the
// core never fails on protocol irregularities.
func (c *Client) HandleLine(raw string) {
	msg := irc.ParseMessage(strings.TrimRight(raw, "\r\n"))
	if msg.Command == "" {
		return
	}

	switch strings.ToUpper(msg.Command) {
	case "PING":
		if len(msg.Params) > 0 {
			c.sendLine("PONG " + msg.Param(0))
		} else {
			c.sendLine("PONG")
		}
	case irc.RplWelcome:
		c.nick = msg.Param(0)
		c.statusLine(msg.Trailing(1), MessageInfo, msg.Time())
	case irc.RplIsupport:
		c.updateFeatures(msg.Params[1:])
	case irc.ErrNicknameinuse:
		if nick := msg.Param(1); nick != "" {
			c.sendLine("NICK " + nick + "_")
		}
	case "JOIN":
		c.handleJoin(msg)
	case "PART":
		c.handlePart(msg)
	case "KICK":
		c.handleKick(msg)
	case "QUIT":
		c.handleQuit(msg)
	case "NICK":
		c.handleNick(msg)
	case "MODE":
		c.handleMode(msg)
	case "TOPIC":
		c.handleTopic(msg)
	case "PRIVMSG", "NOTICE":
		c.handleChat(msg)
	case "TAGMSG":
		c.handleTagMsg(msg)
	case "AWAY":
		ni := irc.ParseNick(msg.Sender, nil)
		c.store.SetUserFlag(ni.Nick, len(msg.Params) > 0, "away")
	case irc.RplNamreply:
		c.handleNames(msg)
	case irc.RplEndofnames:
		// membership is updated incrementally, nothing to flush
	case irc.RplTopic:
		if b := c.buffers.Get(msg.Param(1)); b != nil {
			b.Topic = msg.Trailing(2)
		}
	case irc.RplNotopic:
		if b := c.buffers.Get(msg.Param(1)); b != nil {
			b.Topic = ""
		}
	case irc.RplTopicwhotime:
		if b := c.buffers.Get(msg.Param(1)); b != nil {
			b.TopicSetBy = irc.ParseNick(msg.Param(2), nil).Nick
			if t, err := strconv.ParseInt(msg.Param(3), 10, 64); err == nil {
				b.TopicSetTime = time.Unix(t, 0)
			}
		}
	case irc.RplMotd, irc.RplMotdstart, irc.RplEndofmotd:
		c.statusLine(msg.Trailing(1), MessageMotd, msg.Time())
	case irc.ErrNomotd:
		// no MOTD, fine
	case irc.ErrUnknowncommand:
		c.statusLine(fmt.Sprintf("unknown command %s", msg.Param(1)), MessageError, msg.Time())
	}
}

func (c *Client) statusLine(text string, cat MessageCategory, at time.Time) {
	if text == "" {
		return
	}
	c.buffers.Append(StatusBuffer, c.newMessageAt(PlainRef(""), StatusBuffer, text, cat, at))
}

// updateFeatures applies ISUPPORT tokens. Everything before the trailing
// human-readable text is a TOKEN or TOKEN=value pair.
func (c *Client) updateFeatures(tokens []string) {
	for _, token := range tokens {
		if strings.HasPrefix(token, ":") {
			break
		}
		key, value, _ := strings.Cut(token, "=")
		switch key {
		case "PREFIX":
			// a malformed table fails closed: ranking degrades to
			// NoPermission, message processing continues
			c.store.SetUserModes(irc.ParseUserModes(value))
		case "CHANMODES":
			c.store.SetChannelModes(irc.ParseChannelModes(value))
		case "CHANTYPES":
			if value != "" {
				c.chantypes = value
			}
		case "CASEMAPPING":
			switch value {
			case "ascii":
				c.setCasemap(irc.CasemapASCII)
			case "rfc1459":
				c.setCasemap(irc.CasemapRFC1459)
			}
		case "NETWORK":
			c.network = value
		}
	}
}

func (c *Client) setCasemap(fn irc.Casemapping) {
	c.casemap = fn
	c.store.SetCasemap(fn)
	c.buffers.SetCasemap(fn)
}

func (c *Client) handleJoin(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	channel := strings.TrimPrefix(msg.Param(0), ":")
	if channel == "" || ni.Nick == "" {
		return
	}

	if c.IsMe(ni.Nick) {
		c.buffers.Open(channel, BufferChannel)
	} else if c.buffers.Get(channel) == nil {
		// JOIN for a channel we are not in, ignore
		return
	}
	u := c.store.Join(ni.Nick, ni.Ident, ni.Hostname, channel)
	text := fmt.Sprintf("%s (%s@%s) joined %s", ni.Nick, ni.Ident, ni.Hostname, channel)
	c.buffers.Append(channel, c.newMessageAt(UserRef(u), channel, text, MessageJoin, msg.Time()))
}

func (c *Client) handlePart(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	channel := msg.Param(0)
	reason := msg.Trailing(1)

	text := fmt.Sprintf("%s left %s", ni.Nick, channel)
	if reason != "" {
		text += " (" + reason + ")"
	}
	c.buffers.Append(channel, c.newMessageAt(c.nickRef(ni.Nick), channel, text, MessagePart, msg.Time()))

	if c.IsMe(ni.Nick) {
		c.store.ClearChannel(channel)
		c.buffers.Close(channel)
		return
	}
	c.store.Part(ni.Nick, channel)
	c.buffers.TypingDone(channel, ni.Nick)
}

func (c *Client) handleKick(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	channel := msg.Param(0)
	victim := msg.Param(1)
	reason := msg.Trailing(2)
	if channel == "" || victim == "" {
		return
	}

	text := fmt.Sprintf("%s was kicked from %s by %s", victim, channel, ni.Nick)
	if reason != "" {
		text += " (" + reason + ")"
	}
	c.buffers.Append(channel, c.newMessageAt(c.nickRef(victim), channel, text, MessageKick, msg.Time()))

	if c.IsMe(victim) {
		c.store.ClearChannel(channel)
		c.buffers.Close(channel)
		return
	}
	c.store.Part(victim, channel)
	c.buffers.TypingDone(channel, victim)
}

func (c *Client) handleQuit(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	reason := msg.Trailing(0)

	// append the notices while the user is still resolvable, then remove
	ref := c.nickRef(ni.Nick)
	text := fmt.Sprintf("%s quit", ni.Nick)
	if reason != "" {
		text += " (" + reason + ")"
	}
	for _, channel := range c.store.UserChannels(ni.Nick) {
		c.buffers.Append(channel, c.newMessageAt(ref, channel, text, MessageQuit, msg.Time()))
	}
	c.store.Quit(ni.Nick)
	c.buffers.ClearTyping(ni.Nick)
}

func (c *Client) handleNick(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	newNick := strings.TrimPrefix(msg.Param(0), ":")
	if newNick == "" {
		return
	}

	me := c.IsMe(ni.Nick)
	if c.store.Rename(ni.Nick, newNick) {
		text := fmt.Sprintf("%s is now known as %s", ni.Nick, newNick)
		ref := c.nickRef(newNick)
		for _, channel := range c.store.UserChannels(newNick) {
			c.buffers.Append(channel, c.newMessageAt(ref, channel, text, MessageInfo, msg.Time()))
		}
	}
	c.buffers.ClearTyping(ni.Nick)
	if me {
		c.nick = newNick
	}
}

func (c *Client) handleMode(msg irc.Message) {
	target := msg.Param(0)
	if !c.IsChannel(target) || len(msg.Params) < 2 {
		return
	}
	ni := irc.ParseNick(msg.Sender, nil)

	prefixModes := irc.Flags(c.store.UserModes())
	changes := irc.ExpandModeChange(msg.Param(1), msg.Params[2:], c.store.ChannelModes(), prefixModes)
	for _, change := range changes {
		if !strings.Contains(prefixModes, change.Mode) {
			continue
		}
		c.store.SetChannelFlag(change.Param, target, change.Enable, change.Mode)
	}

	text := fmt.Sprintf("%s sets mode %s", ni.Nick, strings.Join(msg.Params[1:], " "))
	c.buffers.Append(target, c.newMessageAt(c.nickRef(ni.Nick), target, text, MessageMode, msg.Time()))
}

func (c *Client) handleTopic(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	channel := msg.Param(0)
	topic := msg.Trailing(1)

	b := c.buffers.Get(channel)
	if b == nil {
		return
	}
	b.Topic = topic
	b.TopicSetBy = ni.Nick
	b.TopicSetTime = msg.Time()
	text := fmt.Sprintf("%s changed the topic to: %s", ni.Nick, topic)
	c.buffers.Append(channel, c.newMessageAt(c.nickRef(ni.Nick), channel, text, MessageInfo, msg.Time()))
}

func (c *Client) handleChat(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	target := msg.Param(0)
	text := msg.Trailing(1)
	if target == "" {
		return
	}

	category := MessageDefault
	if strings.ToUpper(msg.Command) == "NOTICE" {
		category = MessageNotice
	}
	if action, ok := ctcpAction(text); ok {
		category = MessageMe
		text = action
	}

	buffer := target
	switch {
	case c.IsChannel(target):
		// lands in the channel buffer, or status if not joined
	case category == MessageNotice:
		buffer = StatusBuffer
	case c.IsMe(target):
		// direct message: the buffer carries the peer's nick
		buffer = ni.Nick
		c.buffers.Open(buffer, BufferPriv)
	}

	c.buffers.TypingDone(buffer, ni.Nick)
	c.buffers.Append(buffer, c.newMessageAt(c.nickRef(ni.Nick), target, text, category, msg.Time()))
}

// ctcpAction unwraps a CTCP ACTION body. Other CTCP forms pass through
// as plain text.
func ctcpAction(text string) (string, bool) {
	if !strings.HasPrefix(text, "\x01ACTION") || !strings.HasSuffix(text, "\x01") {
		return "", false
	}
	action := strings.TrimSuffix(strings.TrimPrefix(text, "\x01ACTION"), "\x01")
	return strings.TrimPrefix(action, " "), true
}

func (c *Client) handleTagMsg(msg irc.Message) {
	ni := irc.ParseNick(msg.Sender, nil)
	if c.IsMe(ni.Nick) {
		return
	}
	target := msg.Param(0)
	buffer := target
	if !c.IsChannel(target) {
		buffer = ni.Nick
	}

	switch msg.Tags["+typing"] {
	case "active":
		c.buffers.TypingActive(buffer, ni.Nick)
	case "paused", "done":
		c.buffers.TypingDone(buffer, ni.Nick)
	}
}

func (c *Client) handleNames(msg irc.Message) {
	channel := msg.Param(2)
	if c.buffers.Get(channel) == nil {
		return
	}
	table := c.store.UserModes()
	for _, name := range strings.Fields(msg.Trailing(3)) {
		ni := irc.ParseNick(name, table)
		if ni.Nick == "" {
			continue
		}
		c.store.Join(ni.Nick, ni.Ident, ni.Hostname, channel, ni.Modes...)
	}
}
