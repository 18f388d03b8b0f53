package domain

// MaxFibonacciN bounds the computation cost of a single request. Inputs above
// it are clamped, not rejected.
const MaxFibonacciN uint32 = 50

// DefaultFibonacciN is used when a request omits the position parameter.
const DefaultFibonacciN uint32 = 30

// ClampFibonacciN silently reduces n to MaxFibonacciN.
func ClampFibonacciN(n uint32) uint32 {
	if n > MaxFibonacciN {
		return MaxFibonacciN
	}
	return n
}

// Fibonacci returns the n-th Fibonacci number (F(0)=0, F(1)=1) using
// iterative uint64 addition. Overflow wraps silently; near n=50 the result is
// the wrapped value, which is the documented behavior of this service.
func Fibonacci(n uint32) uint64 {
	switch n {
	case 0:
		return 0
	case 1:
		return 1
	}

	var a, b uint64 = 0, 1
	for i := uint32(2); i <= n; i++ {
		a, b = b, a+b
	}
	return b
}
