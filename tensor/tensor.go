// Package tensor provides the fixed-rank dense arrays used by the integral
// engines: three-, five- and seven-index tensors of float64, each backed by a
// single contiguous row-major buffer. The rank and per-axis extents are fixed
// at construction; only the contents are mutable.
package tensor

import "fmt"

// flatten computes the row-major offset of a multi-index into a buffer with
// the given extents. It panics on an out-of-range index, which is always a
// caller bug: the integral engines derive every index bound from the angular
// momenta the tables were built for.
func flatten(dims, idx []int) int {
	offset := 0
	for n, i := range idx {
		if i < 0 || i >= dims[n] {
			panic(fmt.Sprintf("tensor: index %d out of range [0,%d) on axis %d", i, dims[n], n))
		}
		offset = offset*dims[n] + i
	}
	return offset
}

func bufferSize(dims []int) int {
	size := 1
	for _, d := range dims {
		size *= d
	}
	return size
}

// ThreeIndex is a rank-3 dense tensor.
type ThreeIndex struct {
	dims [3]int
	data []float64
}

// NewThreeIndex allocates a zeroed rank-3 tensor with the given extents.
func NewThreeIndex(d0, d1, d2 int) *ThreeIndex {
	t := &ThreeIndex{dims: [3]int{d0, d1, d2}}
	t.data = make([]float64, bufferSize(t.dims[:]))
	return t
}

// Dim returns the extent of axis n.
func (t *ThreeIndex) Dim(n int) int { return t.dims[n] }

// At returns the element at (i, j, k).
func (t *ThreeIndex) At(i, j, k int) float64 {
	return t.data[flatten(t.dims[:], []int{i, j, k})]
}

// Set stores v at (i, j, k).
func (t *ThreeIndex) Set(i, j, k int, v float64) {
	t.data[flatten(t.dims[:], []int{i, j, k})] = v
}

// RawData exposes the backing buffer, row-major over (i, j, k).
func (t *ThreeIndex) RawData() []float64 { return t.data }

// FiveIndex is a rank-5 dense tensor.
type FiveIndex struct {
	dims [5]int
	data []float64
}

// NewFiveIndex allocates a zeroed rank-5 tensor with the given extents.
func NewFiveIndex(d0, d1, d2, d3, d4 int) *FiveIndex {
	t := &FiveIndex{dims: [5]int{d0, d1, d2, d3, d4}}
	t.data = make([]float64, bufferSize(t.dims[:]))
	return t
}

// Dim returns the extent of axis n.
func (t *FiveIndex) Dim(n int) int { return t.dims[n] }

// At returns the element at (i, j, k, l, m).
func (t *FiveIndex) At(i, j, k, l, m int) float64 {
	return t.data[flatten(t.dims[:], []int{i, j, k, l, m})]
}

// Set stores v at (i, j, k, l, m).
func (t *FiveIndex) Set(i, j, k, l, m int, v float64) {
	t.data[flatten(t.dims[:], []int{i, j, k, l, m})] = v
}

// RawData exposes the backing buffer, row-major over (i, j, k, l, m).
func (t *FiveIndex) RawData() []float64 { return t.data }

// SevenIndex is a rank-7 dense tensor.
type SevenIndex struct {
	dims [7]int
	data []float64
}

// NewSevenIndex allocates a zeroed rank-7 tensor with the given extents.
func NewSevenIndex(d0, d1, d2, d3, d4, d5, d6 int) *SevenIndex {
	t := &SevenIndex{dims: [7]int{d0, d1, d2, d3, d4, d5, d6}}
	t.data = make([]float64, bufferSize(t.dims[:]))
	return t
}

// Dim returns the extent of axis n.
func (t *SevenIndex) Dim(n int) int { return t.dims[n] }

// At returns the element at (i, j, k, l, m, n, p).
func (t *SevenIndex) At(i, j, k, l, m, n, p int) float64 {
	return t.data[flatten(t.dims[:], []int{i, j, k, l, m, n, p})]
}

// Set stores v at (i, j, k, l, m, n, p).
func (t *SevenIndex) Set(i, j, k, l, m, n, p int, v float64) {
	t.data[flatten(t.dims[:], []int{i, j, k, l, m, n, p})] = v
}

// RawData exposes the backing buffer, row-major over (i, j, k, l, m, n, p).
func (t *SevenIndex) RawData() []float64 { return t.data }
