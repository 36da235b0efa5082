package numerology

const (
	// SingleDigitBound is the bound used by every strict or master reduction.
	SingleDigitBound = 9
	// WideBound leaves the compound values 10..19 unreduced.
	WideBound = 19
)

// Reduce sums seq and then keeps replacing the total by the sum of its
// decimal digits until it is <= upperBound or, when master is set, a
// multiple of 11.
func Reduce(seq []int, upperBound int, master bool) int {
	total := 0
	for _, n := range seq {
		total += n
	}
	for !(total <= upperBound || (master && total%11 == 0)) {
		total = sumDigits(total)
	}
	return total
}

// Strict collapses seq to a single digit, ignoring master numbers.
func Strict(seq []int) int {
	return Reduce(seq, SingleDigitBound, false)
}

// Master collapses seq to a single digit unless a master number (11, 22,
// 33 ...) is reached first.
func Master(seq []int) int {
	return Reduce(seq, SingleDigitBound, true)
}

// Wide stops as soon as the running total is <= 19.
func Wide(seq []int, master bool) int {
	return Reduce(seq, WideBound, master)
}

// DigitsOf returns the decimal digits of n, most significant first.
// Negative values use their absolute value.
func DigitsOf(n int) []int {
	if n < 0 {
		n = -n
	}
	if n < 10 {
		return []int{n}
	}
	var out []int
	for n > 0 {
		out = append(out, n%10)
		n /= 10
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func sumDigits(n int) int {
	if n < 0 {
		n = -n
	}
	s := 0
	for n > 0 {
		s += n % 10
		n /= 10
	}
	return s
}
