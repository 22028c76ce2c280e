package typed

import "testing"

func TestOddEven(t *testing.T) {
	cases := []struct{ in, odd, even int }{
		{-5, -5, -6},
		{-4, -3, -4},
		{0, 1, 0},
		{1, 1, 0},
		{4, 5, 4},
		{7, 7, 6},
		{100, 101, 100},
	}
	for _, c := range cases {
		if got := Odd(c.in); got != c.odd {
			t.Fatalf("Odd(%d) = %d, want %d", c.in, got, c.odd)
		}
		if got := Even(c.in); got != c.even {
			t.Fatalf("Even(%d) = %d, want %d", c.in, got, c.even)
		}
	}
}
