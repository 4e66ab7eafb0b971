package practice

// tickMsg refreshes the elapsed-time display. Ticks from an earlier
// generation were scheduled before a pause and are dropped.
type tickMsg struct {
	gen int
}
