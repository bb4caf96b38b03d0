package core

import "strings"

// Completion is one autocompletion candidate for an input line.
type Completion struct {
	StartIdx  int    // start of the replaced span
	EndIdx    int    // end of the replaced span (the cursor)
	Text      []rune // the whole line after completion
	CursorIdx int    // cursor position after completion
}

// Completions returns the candidates for the word ending at cursorIdx:
// member nicks of the buffer (alphabetically), then command names when the
// line is a lone slash-word.
func (c *Client) Completions(buffer string, cursorIdx int, text []rune) []Completion {
	var cs []Completion
	cs = c.completionsMembers(cs, buffer, cursorIdx, text)
	cs = c.completionsCommands(cs, cursorIdx, text)
	return cs
}

func (c *Client) completionsMembers(cs []Completion, buffer string, cursorIdx int, text []rune) []Completion {
	var start int
	for start = cursorIdx - 1; 0 <= start; start-- {
		if text[start] == ' ' {
			break
		}
	}
	start++
	word := text[start:cursorIdx]
	if len(word) == 0 {
		return cs
	}
	wordCf := c.casemap(string(word))
	for _, u := range c.store.UsersAlphabetical(buffer) {
		if !strings.HasPrefix(c.casemap(u.Nick), wordCf) {
			continue
		}
		nickComp := []rune(u.Nick)
		if start == 0 {
			nickComp = append(nickComp, ':')
		}
		nickComp = append(nickComp, ' ')
		line := make([]rune, len(text)+len(nickComp)-len(word))
		copy(line[:start], text[:start])
		copy(line[start:], nickComp)
		if cursorIdx < len(text) {
			copy(line[start+len(nickComp):], text[cursorIdx:])
		}
		cs = append(cs, Completion{
			StartIdx:  start,
			EndIdx:    cursorIdx,
			Text:      line,
			CursorIdx: start + len(nickComp),
		})
	}
	return cs
}

func (c *Client) completionsCommands(cs []Completion, cursorIdx int, text []rune) []Completion {
	if len(text) == 0 || text[0] != '/' {
		return cs
	}
	for i := 0; i < cursorIdx; i++ {
		if text[i] == ' ' {
			return cs
		}
	}
	word := strings.ToLower(string(text[1:cursorIdx]))
	if word == "" {
		return cs
	}
	for _, name := range commandNames {
		if !strings.HasPrefix(name, word) {
			continue
		}
		line := make([]rune, 0, len(name)+1+len(text)-cursorIdx)
		line = append(line, '/')
		line = append(line, []rune(name)...)
		line = append(line, text[cursorIdx:]...)
		cs = append(cs, Completion{
			StartIdx:  0,
			EndIdx:    cursorIdx,
			Text:      line,
			CursorIdx: 1 + len(name),
		})
	}
	return cs
}
