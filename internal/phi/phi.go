// Package phi holds the tuning constants shared by the simulators. Every
// spring, damping and timing constant is derived from the golden ratio.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.618033988749895

// Inv is 1/Φ (≈0.618), used as the default damping and release scale.
const Inv = Phi - 1

// Sq is Φ² (≈2.618).
var Sq = math.Pow(Phi, 2)

// Fibonacci is the sequence table the decorative scene draws sizes and
// periods from.
var Fibonacci = [...]float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}

// Fib returns Fibonacci[i], wrapping out-of-range indices.
func Fib(i int) float64 {
	n := len(Fibonacci)
	i %= n
	if i < 0 {
		i += n
	}
	return Fibonacci[i]
}
