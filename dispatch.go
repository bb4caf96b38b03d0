package core

import (
	"fmt"
	"sort"
	"strings"
)

// command is one slash-command known to the dispatcher.
type command struct {
	channelOnly bool // not recognized on the status buffer
	usage       string
	desc        string

	// handle builds the outbound wire line(s), newline-joined. ok=false
	// means the input could not be turned into a valid command; the
	// dispatcher then degrades to returning the literal text.
	handle func(c *Client, channel, rest string) (out string, ok bool)
}

type commandSet map[string]*command

var commands commandSet

// commandNames lists canonical command names in help order.
var commandNames []string

func register(cmd *command, names ...string) {
	commandNames = append(commandNames, names[0])
	for _, name := range names {
		commands[name] = cmd
	}
}

func init() {
	commands = commandSet{}

	register(&command{
		usage:  "<channels> [keys]",
		desc:   "join a channel",
		handle: commandDoJoin,
	}, "join", "j")

	register(&command{
		usage:  "[reason]",
		desc:   "disconnect from the server",
		handle: commandDoQuit,
	}, "quit", "q", "logout")

	register(&command{
		usage:  "<raw message>",
		desc:   "send raw protocol data",
		handle: commandDoRaw,
	}, "msg", "raw", "quote")

	register(&command{
		channelOnly: true,
		usage:       "<message>",
		desc:        "send an action to the current channel",
		handle:      commandDoMe,
	}, "me")

	register(&command{
		channelOnly: true,
		usage:       "<nick> [reason]",
		desc:        "eject someone from the channel",
		handle:      commandDoKick,
	}, "kick", "k")

	register(&command{
		channelOnly: true,
		usage:       "<nick> [reason]",
		desc:        "ban and eject someone from the channel",
		handle:      commandDoKickBan,
	}, "kb", "kban")

	register(&command{
		channelOnly: true,
		usage:       "[mask]",
		desc:        "ban a mask from the channel, or list the bans",
		handle:      commandDoBan,
	}, "ban", "b")

	register(&command{
		channelOnly: true,
		usage:       "[reason]",
		desc:        "part and rejoin the current channel",
		handle:      commandDoCycle,
	}, "cycle", "hop")

	register(&command{
		channelOnly: true,
		usage:       "<nick>",
		desc:        "invite someone to the current channel",
		handle:      commandDoInvite,
	}, "invite")

	register(&command{
		channelOnly: true,
		usage:       "[reason]",
		desc:        "part the current channel",
		handle:      commandDoPart,
	}, "part", "p")

	register(&command{
		channelOnly: true,
		usage:       "[topic]",
		desc:        "set the topic of the current channel",
		handle:      commandDoTopic,
	}, "topic")

	register(modeCommand("+o"), "op")
	register(modeCommand("-o"), "deop")
	register(modeCommand("+v"), "voice")
	register(modeCommand("-v"), "devoice")
	register(modeCommand("+h"), "halfop")
	register(modeCommand("-h"), "dehalfop")

	register(&command{
		usage:  "<message>",
		desc:   "send a message to every joined channel",
		handle: commandDoAll,
	}, "all", "amsg")

	register(&command{
		usage:  "<nickname>",
		desc:   "change your nickname",
		handle: commandDoNick,
	}, "nick")

	register(&command{
		usage:  "<nick>",
		desc:   "get information about someone who is connected",
		handle: commandDoWhois,
	}, "whois")

	register(&command{
		usage:  "[message]",
		desc:   "mark yourself as away, or back again",
		handle: commandDoAway,
	}, "away")

	register(servicesCommand("NickServ"), "ns")
	register(servicesCommand("ChanServ"), "cs")
	register(servicesCommand("HostServ"), "hs")
	register(servicesCommand("BotServ"), "bs")
	register(servicesCommand("MemoServ"), "ms")

	register(&command{
		desc:   "show the list of commands",
		handle: commandDoHelp,
	}, "help")
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// Dispatch translates one user-typed line into outbound wire lines,
// newline-joined. Plain text (no leading slash) is returned unchanged for
// the caller to send as an ordinary message. A slash line that does not
// resolve to a complete command degrades to the slash-stripped literal
// text with a lower-cased verb; sending it raw is the intended fallback,
// not an error. An empty return means the line was fully consumed.
func (c *Client) Dispatch(currentChannel, input string) string {
	input = lineBreaks.Replace(input)
	if len(input) == 0 || input[0] != '/' {
		return input
	}

	verb, rest, _ := strings.Cut(input[1:], " ")
	verb = strings.ToLower(verb)
	rest = strings.TrimLeft(rest, " ")

	fallback := verb
	if rest != "" {
		fallback = verb + " " + rest
	}

	cmd, found := commands[verb]
	if !found {
		return fallback
	}
	if cmd.channelOnly && c.isStatus(currentChannel) {
		return fallback
	}
	out, ok := cmd.handle(c, currentChannel, rest)
	if !ok {
		return fallback
	}
	return out
}

func (c *Client) isStatus(buffer string) bool {
	if buffer == "" || buffer == StatusBuffer {
		return true
	}
	if b := c.buffers.Get(buffer); b != nil && b.Category == BufferStatus {
		return true
	}
	return false
}

func commandDoJoin(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	return "JOIN " + rest, true
}

func commandDoQuit(c *Client, channel, rest string) (string, bool) {
	reason := rest
	if reason == "" {
		reason = c.cfg.QuitMessage
	}
	return "QUIT " + reason, true
}

func commandDoRaw(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	return rest, true
}

func commandDoMe(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	return fmt.Sprintf("PRIVMSG %s :\x01ACTION %s\x01", channel, rest), true
}

func kickLine(channel, rest string) (string, bool) {
	nick, reason, _ := strings.Cut(rest, " ")
	if nick == "" {
		return "", false
	}
	out := fmt.Sprintf("KICK %s %s", channel, nick)
	if reason = strings.TrimLeft(reason, " "); reason != "" {
		out += " :" + reason
	}
	return out, true
}

func commandDoKick(c *Client, channel, rest string) (string, bool) {
	return kickLine(channel, rest)
}

func commandDoKickBan(c *Client, channel, rest string) (string, bool) {
	kick, ok := kickLine(channel, rest)
	if !ok {
		return "", false
	}
	nick, _, _ := strings.Cut(rest, " ")
	return fmt.Sprintf("MODE %s +b %s\n%s", channel, nick, kick), true
}

func commandDoBan(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return fmt.Sprintf("MODE %s +b", channel), true
	}
	return fmt.Sprintf("MODE %s +b %s", channel, rest), true
}

func commandDoCycle(c *Client, channel, rest string) (string, bool) {
	part := "PART " + channel
	if rest != "" {
		part += " :" + rest
	}
	return part + "\nJOIN " + channel, true
}

func commandDoInvite(c *Client, channel, rest string) (string, bool) {
	nick, _, _ := strings.Cut(rest, " ")
	if nick == "" {
		return "", false
	}
	return fmt.Sprintf("INVITE %s %s", nick, channel), true
}

func commandDoPart(c *Client, channel, rest string) (string, bool) {
	out := "PART " + channel
	if rest != "" {
		out += " :" + rest
	}
	return out, true
}

func commandDoTopic(c *Client, channel, rest string) (string, bool) {
	// always colon-prefixed so an empty topic clears it
	return fmt.Sprintf("TOPIC %s :%s", channel, rest), true
}

func modeCommand(change string) *command {
	return &command{
		channelOnly: true,
		usage:       "<nick>",
		desc:        fmt.Sprintf("set mode %s on someone in the channel", change),
		handle: func(c *Client, channel, rest string) (string, bool) {
			nick, _, _ := strings.Cut(rest, " ")
			if nick == "" {
				return "", false
			}
			return fmt.Sprintf("MODE %s %s %s", channel, change, nick), true
		},
	}
}

func commandDoAll(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	var lines []string
	for _, b := range c.buffers.List() {
		if !c.IsChannel(b.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("PRIVMSG %s :%s", b.Name, rest))
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func commandDoNick(c *Client, channel, rest string) (string, bool) {
	nick, _, _ := strings.Cut(rest, " ")
	if nick == "" {
		return "", false
	}
	return "NICK " + nick, true
}

func commandDoWhois(c *Client, channel, rest string) (string, bool) {
	nick, _, _ := strings.Cut(rest, " ")
	if nick == "" {
		return "", false
	}
	return "WHOIS " + nick, true
}

func commandDoAway(c *Client, channel, rest string) (string, bool) {
	if rest == "" {
		return "AWAY", true
	}
	return "AWAY :" + rest, true
}

func servicesCommand(service string) *command {
	return &command{
		usage:  "[message]",
		desc:   fmt.Sprintf("send a message to %s", service),
		handle: func(c *Client, channel, rest string) (string, bool) {
			if rest == "" {
				rest = "HELP"
			}
			return fmt.Sprintf("PRIVMSG %s :%s", service, rest), true
		},
	}
}

// commandDoHelp appends one informational line per command to the current
// buffer. It sends nothing over the wire.
func commandDoHelp(c *Client, channel, rest string) (string, bool) {
	names := make([]string, len(commandNames))
	copy(names, commandNames)
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		text := "/" + name
		if cmd.usage != "" {
			text += " " + cmd.usage
		}
		text += ": " + cmd.desc
		c.buffers.Append(channel, c.newMessage(PlainRef(""), channel, text, MessageInfo))
	}
	return "", true
}
