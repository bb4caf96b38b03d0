package core

import (
	"sort"
	"time"

	"mvdan.cc/xurls/v2"

	"github.com/Simple-Irc-Client/core/irc"
)

// StatusBuffer is the name of the synthetic server buffer. It always
// exists and is never a real channel.
const StatusBuffer = "Status"

type BufferCategory int

const (
	BufferChannel BufferCategory = iota
	BufferPriv
	BufferStatus
	BufferDebug
)

type MessageCategory int

const (
	MessageDefault MessageCategory = iota
	MessageJoin
	MessagePart
	MessageQuit
	MessageKick
	MessageMode
	MessageNotice
	MessageInfo
	MessageMe
	MessageError
	MessageMotd
)

// NickRef is a message author: either a resolved store user, or a plain
// string for authors the store no longer (or never) knows.
type NickRef struct {
	user  *User
	plain string
}

func UserRef(u *User) NickRef { return NickRef{user: u} }

func PlainRef(nick string) NickRef { return NickRef{plain: nick} }

// User returns the resolved user, if any.
func (r NickRef) User() (*User, bool) { return r.user, r.user != nil }

func (r NickRef) String() string {
	if r.user != nil {
		return r.user.Nick
	}
	return r.plain
}

// Message is one appended line of a buffer. Messages are append-only and
// never mutated after creation; ID uniqueness is the appender's concern.
type Message struct {
	ID       string
	Text     string
	Nick     NickRef
	Target   string
	Time     time.Time
	Category MessageCategory
	Color    int
	Links    []string
}

var linkRe = xurls.Relaxed()

// Buffer is an open channel, query or synthetic buffer.
type Buffer struct {
	Name         string
	Category     BufferCategory
	Unread       int
	Topic        string
	TopicSetBy   string
	TopicSetTime time.Time

	messages []Message
	typing   map[string]struct{}
}

// Messages returns the buffer's message log, oldest first. The returned
// slice must not be mutated.
func (b *Buffer) Messages() []Message { return b.messages }

// BufferList is the per-buffer message log and live typing projection.
type BufferList struct {
	casemap irc.Casemapping
	order   []string // casemapped names, open order
	buffers map[string]*Buffer
	active  string // casemapped name of the active buffer

	// onMessage, when set, observes every appended message (the UI
	// collaborator hook).
	onMessage func(buffer string, msg Message)
}

func NewBufferList() *BufferList {
	bl := &BufferList{
		casemap: irc.CasemapASCII,
		buffers: map[string]*Buffer{},
	}
	bl.Open(StatusBuffer, BufferStatus)
	bl.active = bl.casemap(StatusBuffer)
	return bl
}

func (bl *BufferList) SetCasemap(fn irc.Casemapping) {
	if fn == nil {
		return
	}
	// rekey open buffers under the new folding
	buffers := map[string]*Buffer{}
	order := make([]string, 0, len(bl.order))
	for _, key := range bl.order {
		b := bl.buffers[key]
		buffers[fn(b.Name)] = b
		order = append(order, fn(b.Name))
	}
	if b, ok := bl.buffers[bl.active]; ok {
		bl.active = fn(b.Name)
	}
	bl.casemap = fn
	bl.buffers = buffers
	bl.order = order
}

func (bl *BufferList) OnMessage(fn func(buffer string, msg Message)) {
	bl.onMessage = fn
}

// Open creates a buffer if absent and returns it.
func (bl *BufferList) Open(name string, category BufferCategory) *Buffer {
	nameCf := bl.casemap(name)
	if b, ok := bl.buffers[nameCf]; ok {
		return b
	}
	b := &Buffer{
		Name:     name,
		Category: category,
		typing:   map[string]struct{}{},
	}
	bl.buffers[nameCf] = b
	bl.order = append(bl.order, nameCf)
	return b
}

// Close removes a buffer. The status buffer cannot be closed.
func (bl *BufferList) Close(name string) {
	nameCf := bl.casemap(name)
	b, ok := bl.buffers[nameCf]
	if !ok || b.Category == BufferStatus {
		return
	}
	delete(bl.buffers, nameCf)
	for i, key := range bl.order {
		if key == nameCf {
			bl.order = append(bl.order[:i], bl.order[i+1:]...)
			break
		}
	}
	if bl.active == nameCf {
		bl.active = bl.casemap(StatusBuffer)
	}
}

// Get returns the buffer with the given name, or nil.
func (bl *BufferList) Get(name string) *Buffer {
	return bl.buffers[bl.casemap(name)]
}

// List returns the open buffers in open order.
func (bl *BufferList) List() []*Buffer {
	list := make([]*Buffer, 0, len(bl.order))
	for _, key := range bl.order {
		list = append(list, bl.buffers[key])
	}
	return list
}

// SetActive switches the active buffer and clears its unread counter.
func (bl *BufferList) SetActive(name string) {
	nameCf := bl.casemap(name)
	b, ok := bl.buffers[nameCf]
	if !ok {
		return
	}
	bl.active = nameCf
	b.Unread = 0
}

// Active returns the name of the active buffer.
func (bl *BufferList) Active() string {
	if b, ok := bl.buffers[bl.active]; ok {
		return b.Name
	}
	return StatusBuffer
}

// Append inserts a message at the end of the target buffer's log. Appends
// to an unknown buffer land in the status buffer so no line is lost.
// Appends to a non-active buffer bump its unread counter.
func (bl *BufferList) Append(target string, msg Message) {
	targetCf := bl.casemap(target)
	b, ok := bl.buffers[targetCf]
	if !ok {
		targetCf = bl.casemap(StatusBuffer)
		b = bl.buffers[targetCf]
	}
	if msg.Links == nil && msg.Text != "" {
		msg.Links = linkRe.FindAllString(msg.Text, -1)
	}
	b.messages = append(b.messages, msg)
	if targetCf != bl.active {
		b.Unread++
	}
	if bl.onMessage != nil {
		bl.onMessage(b.Name, msg)
	}
}

// TypingActive records that a nick is typing in a buffer.
func (bl *BufferList) TypingActive(target, nick string) {
	if b := bl.Get(target); b != nil {
		b.typing[bl.casemap(nick)] = struct{}{}
	}
}

// TypingDone removes a nick from a buffer's typing set.
func (bl *BufferList) TypingDone(target, nick string) {
	if b := bl.Get(target); b != nil {
		delete(b.typing, bl.casemap(nick))
	}
}

// ClearTyping removes a nick from every buffer's typing set. Applied on
// NICK/QUIT/PART so a stale nick never lingers as "is typing".
func (bl *BufferList) ClearTyping(nick string) {
	nickCf := bl.casemap(nick)
	for _, b := range bl.buffers {
		delete(b.typing, nickCf)
	}
}

// Typing returns the sorted typing set of a buffer. There is no
// timeout-based expiry in this projection; only explicit signals (or the
// nick leaving) clear an entry.
func (bl *BufferList) Typing(target string) []string {
	b := bl.Get(target)
	if b == nil {
		return nil
	}
	nicks := make([]string, 0, len(b.typing))
	for nick := range b.typing {
		nicks = append(nicks, nick)
	}
	sort.Strings(nicks)
	return nicks
}
