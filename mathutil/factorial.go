// Package mathutil collects the scalar special-function kernels shared by the
// integral engines: factorial tables, real spherical harmonics, and the
// exponentially scaled modified spherical Bessel functions.
package mathutil

// FacArray tabulates n! for n = 0..l as float64 values.
func FacArray(l int) []float64 {
	if l < 0 {
		return nil
	}
	values := make([]float64, l+1)
	values[0] = 1.0
	for i := 1; i <= l; i++ {
		values[i] = values[i-1] * float64(i)
	}
	return values
}

// DfacArray tabulates the double factorial n!! for n = 0..l, with 0!! = 1!! = 1.
func DfacArray(l int) []float64 {
	if l < 0 {
		return nil
	}
	values := make([]float64, l+1)
	values[0] = 1.0
	if l > 0 {
		values[1] = 1.0
		for i := 2; i <= l; i++ {
			values[i] = values[i-2] * float64(i)
		}
	}
	return values
}
