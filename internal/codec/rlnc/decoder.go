package rlnc

// Decoder accumulates coded symbols into row-echelon form and is
// rank-monotone: AbsorbSymbol either raises rank by exactly one or is
// redundant (§4.2).
type Decoder struct {
	genSize     int
	symbolBytes int

	// pivotCoeff[col] is non-nil once a pivot row with leading 1 at column
	// col has been found; pivotData[col] is its corresponding symbol data.
	pivotCoeff [][]uint16
	pivotData  [][]byte

	rank int
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Configure(genSize int, symbolBytes int) {
	d.genSize = genSize
	d.symbolBytes = symbolBytes
	d.pivotCoeff = make([][]uint16, genSize)
	d.pivotData = make([][]byte, genSize)
	d.rank = 0
}

// AbsorbSymbol reduces the incoming (coeffs, symbol) pair against the
// existing pivot rows. If a nonzero entry survives, it becomes a new pivot
// row and rank increases by one; otherwise the symbol was a linear
// combination of what the decoder already had, and is redundant.
func (d *Decoder) AbsorbSymbol(seed uint64, symbol []byte) bool {
	v := coefficients(seed, d.genSize)
	sv := make([]byte, d.symbolBytes)
	copy(sv, symbol)

	for col := 0; col < d.genSize; col++ {
		if v[col] == 0 {
			continue
		}
		if d.pivotCoeff[col] == nil {
			// New pivot. Normalize so the leading coefficient is 1.
			leadInv := inv(v[col])
			scaleCoeffs(v, leadInv)
			scaleWordsInPlace(sv, leadInv)
			d.pivotCoeff[col] = v
			d.pivotData[col] = sv
			d.rank++
			return true
		}
		factor := v[col]
		addScaledCoeffs(v, d.pivotCoeff[col], factor)
		mulWordsAccumulate(sv, d.pivotData[col], factor)
	}
	return false
}

func (d *Decoder) Deficit() int {
	return d.genSize - d.rank
}

func (d *Decoder) IsComplete() bool {
	return d.rank == d.genSize
}

// ExtractBlock back-substitutes the row-echelon pivot rows into the original
// source symbols, in generation order.
func (d *Decoder) ExtractBlock() []byte {
	block := make([]byte, d.genSize*d.symbolBytes)
	for col := d.genSize - 1; col >= 0; col-- {
		sv := make([]byte, d.symbolBytes)
		copy(sv, d.pivotData[col])
		coeff := d.pivotCoeff[col]
		for j := col + 1; j < d.genSize; j++ {
			if coeff[j] == 0 {
				continue
			}
			mulWordsAccumulate(sv, block[j*d.symbolBytes:(j+1)*d.symbolBytes], coeff[j])
		}
		copy(block[col*d.symbolBytes:(col+1)*d.symbolBytes], sv)
	}
	return block
}

// MissingSequence is meaningless for the coded variant: a rank deficit does
// not correspond to any particular missing symbol.
func (d *Decoder) MissingSequence() []uint32 {
	return nil
}
