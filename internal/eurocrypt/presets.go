package eurocrypt

// Preset bundles a channel's 7-byte key with the ECM template bytes
// hacktv ships for it: channel ID, key index, control byte, date,
// theme and level, laid out exactly as the 42-byte ECM wire format.
type Preset struct {
	Name     string
	Key      [7]byte
	Template [42]byte
}

// PresetCTV is the CTV channel preset (key index 0x08).
var PresetCTV = Preset{
	Name: "ctv",
	Key:  [7]byte{0x84, 0x66, 0x30, 0xE4, 0xDA, 0xFA, 0x23},
	Template: [42]byte{
		0x90, 0x03, 0x00, 0x04, 0x38,
		0xE0, 0x01, 0x00,
		0xE1, 0x04, 0x21, 0x65, 0xFF, 0x00,
		0xEA, 0x10,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x01,
		0xF0, 0x08,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

// PresetTVPlus is the TV Plus (Holland) channel preset.
var PresetTVPlus = Preset{
	Name: "tvplus",
	Key:  [7]byte{0x12, 0x06, 0x28, 0x3A, 0x4B, 0x1D, 0xE2},
	Template: [42]byte{
		0x90, 0x03, 0x00, 0x2c, 0x08,
		0xE0, 0x01, 0x00,
		0xE1, 0x04, 0x21, 0x65, 0x04, 0x00,
		0xEA, 0x10,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x01,
		0xF0, 0x08,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

// PresetTV1000 is the TV1000 channel preset (key index 0x0F), used by
// the known-answer test vectors.
var PresetTV1000 = Preset{
	Name: "tv1000",
	Key:  [7]byte{0x36, 0xFA, 0xCD, 0x50, 0x85, 0x54, 0xDF},
	Template: [42]byte{
		0x90, 0x03, 0x00, 0x04, 0x1F,
		0xE0, 0x01, 0x00,
		0xE1, 0x04, 0x21, 0x65, 0x05, 0x04,
		0xEA, 0x10,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x01,
		0xF0, 0x08,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

// PresetFilmnet is the FilmNet channel preset.
var PresetFilmnet = Preset{
	Name: "filmnet",
	Key:  [7]byte{0x21, 0x12, 0x31, 0x35, 0x8A, 0xC3, 0x4F},
	Template: [42]byte{
		0x90, 0x03, 0x00, 0x28, 0x08,
		0xE0, 0x01, 0x00,
		0xE1, 0x04, 0x21, 0x15, 0x05, 0x00,
		0xEA, 0x10,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x01,
		0xF0, 0x08,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

// PresetByName resolves one of the four built-in channel presets by
// its configuration name. The empty string and unknown names fall
// back to PresetCTV, matching hacktv's own default dispatch.
func PresetByName(name string) Preset {
	switch name {
	case "filmnet":
		return PresetFilmnet
	case "tv1000":
		return PresetTV1000
	case "tvplus":
		return PresetTVPlus
	case "ctv":
		return PresetCTV
	default:
		return PresetCTV
	}
}
