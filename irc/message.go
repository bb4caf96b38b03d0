package irc

import (
	"strings"
	"time"
)

// Message is a single decoded IRC protocol line.
//
// Params holds the raw space-separated tokens after the command verb,
// without trailing-parameter reassembly: a final colon-prefixed parameter
// arrives as several tokens, the first of which still carries its ':'.
// Callers that need the trailing parameter as one string use Trailing.
type Message struct {
	Tags    map[string]string
	Sender  string
	Command string
	Params  []string
}

// ParseMessage decodes one raw protocol line (trimmed, no CRLF).
// It never fails: an empty or unparsable line yields a Message with an
// empty Command, which consumers treat as a no-op.
func ParseMessage(line string) Message {
	msg := Message{
		Tags:   map[string]string{},
		Params: []string{},
	}
	if line == "" {
		return msg
	}

	tokens := strings.Split(line, " ")
	i := 0

	if strings.HasPrefix(tokens[i], "@") {
		for _, entry := range strings.Split(tokens[i][1:], ";") {
			if entry == "" {
				continue
			}
			// a key without '=' maps to the empty string
			key, value, _ := strings.Cut(entry, "=")
			msg.Tags[key] = value
		}
		i++
	}

	if i < len(tokens) && strings.HasPrefix(tokens[i], ":") {
		msg.Sender = tokens[i][1:]
		i++
	}

	if i < len(tokens) {
		msg.Command = tokens[i]
		i++
	}

	msg.Params = append(msg.Params, tokens[i:]...)
	return msg
}

// Trailing joins Params from index i to the end into one string, stripping
// the leading ':' of the first token if present. It returns "" when i is
// past the last parameter.
func (msg Message) Trailing(i int) string {
	if i < 0 || i >= len(msg.Params) {
		return ""
	}
	s := strings.Join(msg.Params[i:], " ")
	return strings.TrimPrefix(s, ":")
}

// Param returns the i-th parameter, or "" if absent.
func (msg Message) Param(i int) string {
	if i < 0 || i >= len(msg.Params) {
		return ""
	}
	return msg.Params[i]
}

// Time returns the instant carried by the server-time tag, or the current
// time when the tag is absent or malformed.
func (msg Message) Time() time.Time {
	if stamp, ok := msg.Tags["time"]; ok {
		if t, err := time.Parse("2006-01-02T15:04:05.000Z", stamp); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			return t
		}
	}
	return time.Now()
}
