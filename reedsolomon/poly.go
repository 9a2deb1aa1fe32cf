package reedsolomon

// Polynomials in this file are stored lowest degree first unless the name
// says otherwise.

// evalHighFirst evaluates a polynomial stored highest degree first at x.
func evalHighFirst(coefficients []byte, x byte) byte {
	var result byte
	for _, c := range coefficients {
		result = Multiply(result, x) ^ c
	}
	return result
}

// evalLowFirst evaluates a polynomial stored lowest degree first at x.
func evalLowFirst(coefficients []byte, x byte) byte {
	var result byte
	for i := len(coefficients) - 1; i >= 0; i-- {
		result = Multiply(result, x) ^ coefficients[i]
	}
	return result
}

// mulTruncated returns a*b keeping only the terms below degree limit.
func mulTruncated(a, b []byte, limit int) []byte {
	product := make([]byte, limit)
	for i, ac := range a {
		if ac == 0 || i >= limit {
			continue
		}
		for j, bc := range b {
			if i+j >= limit {
				break
			}
			product[i+j] ^= Multiply(ac, bc)
		}
	}
	return product
}

// derivative returns the formal derivative. Over GF(2^8) only the odd
// degree terms survive.
func derivative(coefficients []byte) []byte {
	if len(coefficients) <= 1 {
		return []byte{0}
	}
	d := make([]byte, len(coefficients)-1)
	for i := 1; i < len(coefficients); i += 2 {
		d[i-1] = coefficients[i]
	}
	return d
}
