package idoprogram

import "math/bits"

// CollectedToDistributed converts collected-token atomic units into
// distributed-token atomic units: floor(collected * num / den). The
// intermediate product is computed with a 128-bit widening multiply
// (math/bits.Mul64) so a u64*u64 product never truncates, mirroring the
// original program's u128 arithmetic. Rounding is always toward zero.
//
// den == 0 is a precondition violation the caller must never construct (the
// InitPool handler rejects PriceDenominator == 0 before a Pool exists), so
// it is not re-checked here.
func CollectedToDistributed(collected, num, den uint64) (uint64, error) {
	hi, lo := bits.Mul64(collected, num)
	if hi >= den {
		// bits.Div64 panics on a quotient that would not fit in 64 bits;
		// hi >= den is exactly that condition.
		return 0, NewError(ErrArithmeticOverflow)
	}
	quotient, _ := bits.Div64(hi, lo, den)
	return quotient, nil
}

// CheckedAdd returns a+b, or ErrArithmeticOverflow if the sum does not fit
// in a uint64.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, NewError(ErrArithmeticOverflow)
	}
	return sum, nil
}

// CheckedSub returns a-b, or ErrArithmeticOverflow if b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, NewError(ErrArithmeticOverflow)
	}
	return a - b, nil
}
