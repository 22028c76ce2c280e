package typed

// Normalizers snap a value onto the closest acceptable one. They run after the
// value has been coerced to the parameter's numeric kind and before range
// clamping.

// Odd maps x to the closest odd integer at or above floor(x/2)*2.
func Odd(x int) int { return floorDiv(x, 2)*2 + 1 }

// Even maps x to floor(x/2)*2.
func Even(x int) int { return floorDiv(x, 2) * 2 }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
