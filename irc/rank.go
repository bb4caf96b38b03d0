package irc

// rankBase keeps ranks strictly decreasing with table index while staying
// positive, which simplifies descending sort comparators. It only needs to
// exceed any plausible PREFIX table length; it is not a protocol value.
const rankBase = 256

// NoPermission is the rank of a user with no ranked channel mode.
const NoPermission = -1

// Rank computes a single sortable permission value from a set of channel
// mode flags, given the server's ranked mode table. The highest-privilege
// flag wins; flags the table does not know contribute nothing. An empty or
// unmatched set ranks NoPermission.
func Rank(flags []string, table []UserMode) int {
	max := NoPermission
	for _, f := range flags {
		for i, m := range table {
			if m.Flag != f {
				continue
			}
			if r := rankBase - i; r > max {
				max = r
			}
			break
		}
	}
	return max
}
