package decoder

// DataMasks holds the eight mask conditions indexed by mask pattern number.
// A data module at (row, col) is flipped when its condition is true.
var DataMasks = [8]func(row, col int) bool{
	func(i, j int) bool { return (i+j)&1 == 0 },
	func(i, j int) bool { return i&1 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)&1 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)&1 == 0 },
	func(i, j int) bool { return ((i+j)%2+i*j%3)&1 == 0 },
}
