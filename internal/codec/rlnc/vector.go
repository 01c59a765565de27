package rlnc

// coefficient vectors are indexed by source symbol, one GF(2^16) element per
// symbol in the generation.

// addScaledCoeffs computes dst ^= scalar*src in place.
func addScaledCoeffs(dst, src []uint16, scalar uint16) {
	if scalar == 0 {
		return
	}
	for i, s := range src {
		dst[i] ^= mul(scalar, s)
	}
}

// scaleCoeffs computes buf *= scalar in place.
func scaleCoeffs(buf []uint16, scalar uint16) {
	for i, s := range buf {
		buf[i] = mul(scalar, s)
	}
}
