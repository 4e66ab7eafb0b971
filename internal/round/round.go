// Package round implements integer division with round-half-up semantics.
// A zero denominator yields 0.
package round

// Div returns num/den rounded half up. Negative inputs are not expected.
func Div(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}

// Percent returns 100*part/whole rounded half up, or 0 when whole is 0.
func Percent(part, whole int) int {
	return int(Div(100*int64(part), int64(whole)))
}
