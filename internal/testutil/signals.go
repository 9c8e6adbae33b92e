package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// UniformTimes returns n times start, start+dt, ...
func UniformTimes(start, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + dt*float64(i)
	}
	return out
}

// Chirp generates a deterministic inspiral-like mode: amplitude and
// frequency grow slowly with time, h = A(t) exp(-i φ(t)) with
// A(t) = amp*(1 + rate*t) and φ(t) = omega*t*(1 + rate*t/2).
func Chirp(times []float64, amp, omega, rate float64) []complex128 {
	out := make([]complex128, len(times))
	for i, t := range times {
		a := amp * (1 + rate*t)
		phi := omega * t * (1 + 0.5*rate*t)
		out[i] = complex(a, 0) * cmplx.Exp(complex(0, -phi))
	}
	return out
}

// Constant returns n copies of v.
func Constant(v complex128, n int) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// InversePolynomial evaluates c[0] + c[1]/r + c[2]/r² + ...
func InversePolynomial(coeffs []complex128, r float64) complex128 {
	x := 1 / r
	var sum complex128
	p := 1.0
	for _, c := range coeffs {
		sum += c * complex(p, 0)
		p *= x
	}
	return sum
}

// DeterministicNoise generates complex white noise with a fixed seed for
// reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = complex((rng.Float64()*2-1)*amplitude, (rng.Float64()*2-1)*amplitude)
	}
	return out
}

// AddOffset returns h + delta sample-wise.
func AddOffset(h []complex128, delta complex128) []complex128 {
	out := make([]complex128, len(h))
	for i, v := range h {
		out[i] = v + delta
	}
	return out
}

// Abs returns |h| sample-wise.
func Abs(h []complex128) []float64 {
	out := make([]float64, len(h))
	for i, v := range h {
		out[i] = math.Hypot(real(v), imag(v))
	}
	return out
}
