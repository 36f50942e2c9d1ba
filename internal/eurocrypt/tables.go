// Package eurocrypt implements the Eurocrypt-M conditional-access
// control-word cipher and ECM packet assembler used by classic
// analogue pay-TV encoders.
package eurocrypt

// expansion permutation E: expands the 32-bit half-block R to 48 bits
// before XOR with the round key.
var expansionTable = [48]byte{
	32, 1, 2, 3, 4, 5,
	4, 5, 6, 7, 8, 9,
	8, 9, 10, 11, 12, 13,
	12, 13, 14, 15, 16, 17,
	16, 17, 18, 19, 20, 21,
	20, 21, 22, 23, 24, 25,
	24, 25, 26, 27, 28, 29,
	28, 29, 30, 31, 32, 1,
}

// substitution boxes: 8 boxes of 64 entries each, indexed by the
// 6-bit value produced per round for that box.
var sBoxes = [8][64]byte{
	{
		0x0E, 0x00, 0x04, 0x0F, 0x0D, 0x07, 0x01, 0x04,
		0x02, 0x0E, 0x0F, 0x02, 0x0B, 0x0D, 0x08, 0x01,
		0x03, 0x0A, 0x0A, 0x06, 0x06, 0x0C, 0x0C, 0x0B,
		0x05, 0x09, 0x09, 0x05, 0x00, 0x03, 0x07, 0x08,
		0x04, 0x0F, 0x01, 0x0C, 0x0E, 0x08, 0x08, 0x02,
		0x0D, 0x04, 0x06, 0x09, 0x02, 0x01, 0x0B, 0x07,
		0x0F, 0x05, 0x0C, 0x0B, 0x09, 0x03, 0x07, 0x0E,
		0x03, 0x0A, 0x0A, 0x00, 0x05, 0x06, 0x00, 0x0D,
	},
	{
		0x0F, 0x03, 0x01, 0x0D, 0x08, 0x04, 0x0E, 0x07,
		0x06, 0x0F, 0x0B, 0x02, 0x03, 0x08, 0x04, 0x0E,
		0x09, 0x0C, 0x07, 0x00, 0x02, 0x01, 0x0D, 0x0A,
		0x0C, 0x06, 0x00, 0x09, 0x05, 0x0B, 0x0A, 0x05,
		0x00, 0x0D, 0x0E, 0x08, 0x07, 0x0A, 0x0B, 0x01,
		0x0A, 0x03, 0x04, 0x0F, 0x0D, 0x04, 0x01, 0x02,
		0x05, 0x0B, 0x08, 0x06, 0x0C, 0x07, 0x06, 0x0C,
		0x09, 0x00, 0x03, 0x05, 0x02, 0x0E, 0x0F, 0x09,
	},
	{
		0x0A, 0x0D, 0x00, 0x07, 0x09, 0x00, 0x0E, 0x09,
		0x06, 0x03, 0x03, 0x04, 0x0F, 0x06, 0x05, 0x0A,
		0x01, 0x02, 0x0D, 0x08, 0x0C, 0x05, 0x07, 0x0E,
		0x0B, 0x0C, 0x04, 0x0B, 0x02, 0x0F, 0x08, 0x01,
		0x0D, 0x01, 0x06, 0x0A, 0x04, 0x0D, 0x09, 0x00,
		0x08, 0x06, 0x0F, 0x09, 0x03, 0x08, 0x00, 0x07,
		0x0B, 0x04, 0x01, 0x0F, 0x02, 0x0E, 0x0C, 0x03,
		0x05, 0x0B, 0x0A, 0x05, 0x0E, 0x02, 0x07, 0x0C,
	},
	{
		0x07, 0x0D, 0x0D, 0x08, 0x0E, 0x0B, 0x03, 0x05,
		0x00, 0x06, 0x06, 0x0F, 0x09, 0x00, 0x0A, 0x03,
		0x01, 0x04, 0x02, 0x07, 0x08, 0x02, 0x05, 0x0C,
		0x0B, 0x01, 0x0C, 0x0A, 0x04, 0x0E, 0x0F, 0x09,
		0x0A, 0x03, 0x06, 0x0F, 0x09, 0x00, 0x00, 0x06,
		0x0C, 0x0A, 0x0B, 0x01, 0x07, 0x0D, 0x0D, 0x08,
		0x0F, 0x09, 0x01, 0x04, 0x03, 0x05, 0x0E, 0x0B,
		0x05, 0x0C, 0x02, 0x07, 0x08, 0x02, 0x04, 0x0E,
	},
	{
		0x02, 0x0E, 0x0C, 0x0B, 0x04, 0x02, 0x01, 0x0C,
		0x07, 0x04, 0x0A, 0x07, 0x0B, 0x0D, 0x06, 0x01,
		0x08, 0x05, 0x05, 0x00, 0x03, 0x0F, 0x0F, 0x0A,
		0x0D, 0x03, 0x00, 0x09, 0x0E, 0x08, 0x09, 0x06,
		0x04, 0x0B, 0x02, 0x08, 0x01, 0x0C, 0x0B, 0x07,
		0x0A, 0x01, 0x0D, 0x0E, 0x07, 0x02, 0x08, 0x0D,
		0x0F, 0x06, 0x09, 0x0F, 0x0C, 0x00, 0x05, 0x09,
		0x06, 0x0A, 0x03, 0x04, 0x00, 0x05, 0x0E, 0x03,
	},
	{
		0x0C, 0x0A, 0x01, 0x0F, 0x0A, 0x04, 0x0F, 0x02,
		0x09, 0x07, 0x02, 0x0C, 0x06, 0x09, 0x08, 0x05,
		0x00, 0x06, 0x0D, 0x01, 0x03, 0x0D, 0x04, 0x0E,
		0x0E, 0x00, 0x07, 0x0B, 0x05, 0x03, 0x0B, 0x08,
		0x09, 0x04, 0x0E, 0x03, 0x0F, 0x02, 0x05, 0x0C,
		0x02, 0x09, 0x08, 0x05, 0x0C, 0x0F, 0x03, 0x0A,
		0x07, 0x0B, 0x00, 0x0E, 0x04, 0x01, 0x0A, 0x07,
		0x01, 0x06, 0x0D, 0x00, 0x0B, 0x08, 0x06, 0x0D,
	},
	{
		0x04, 0x0D, 0x0B, 0x00, 0x02, 0x0B, 0x0E, 0x07,
		0x0F, 0x04, 0x00, 0x09, 0x08, 0x01, 0x0D, 0x0A,
		0x03, 0x0E, 0x0C, 0x03, 0x09, 0x05, 0x07, 0x0C,
		0x05, 0x02, 0x0A, 0x0F, 0x06, 0x08, 0x01, 0x06,
		0x01, 0x06, 0x04, 0x0B, 0x0B, 0x0D, 0x0D, 0x08,
		0x0C, 0x01, 0x03, 0x04, 0x07, 0x0A, 0x0E, 0x07,
		0x0A, 0x09, 0x0F, 0x05, 0x06, 0x00, 0x08, 0x0F,
		0x00, 0x0E, 0x05, 0x02, 0x09, 0x03, 0x02, 0x0C,
	},
	{
		0x0D, 0x01, 0x02, 0x0F, 0x08, 0x0D, 0x04, 0x08,
		0x06, 0x0A, 0x0F, 0x03, 0x0B, 0x07, 0x01, 0x04,
		0x0A, 0x0C, 0x09, 0x05, 0x03, 0x06, 0x0E, 0x0B,
		0x05, 0x00, 0x00, 0x0E, 0x0C, 0x09, 0x07, 0x02,
		0x07, 0x02, 0x0B, 0x01, 0x04, 0x0E, 0x01, 0x07,
		0x09, 0x04, 0x0C, 0x0A, 0x0E, 0x08, 0x02, 0x0D,
		0x00, 0x0F, 0x06, 0x0C, 0x0A, 0x09, 0x0D, 0x00,
		0x0F, 0x03, 0x03, 0x05, 0x05, 0x06, 0x08, 0x0B,
	},
}

// round permutation P applied to the concatenated S-box output.
var permutationTable = [32]byte{
	16, 7, 20, 21,
	29, 12, 28, 17,
	1, 15, 23, 26,
	5, 18, 31, 10,
	2, 8, 24, 14,
	32, 27, 3, 9,
	19, 13, 30, 6,
	22, 11, 4, 25,
}

// PC2: selects the 48 round-key bits from the 56-bit C||D register.
// Values 1-28 index into C, 29-56 into D.
var pc2Table = [48]byte{
	14, 17, 11, 24, 1, 5,
	3, 28, 15, 6, 21, 10,
	23, 19, 12, 4, 26, 8,
	16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55,
	30, 40, 51, 45, 33, 48,
	44, 49, 39, 56, 34, 53,
	46, 42, 50, 36, 29, 32,
}

// per-round left-shift counts applied to the C and D key halves.
var leftShiftTable = [16]byte{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}
