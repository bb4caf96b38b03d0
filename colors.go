package core

import "hash/fnv"

// mIRC color codes, excluding grayscale and background-like colors.
var nickColors = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// NickColor picks a stable display color code for a nick.
func NickColor(nick string) int {
	h := fnv.New32()
	_, _ = h.Write([]byte(nick))
	return nickColors[int(h.Sum32()%uint32(len(nickColors)))]
}
