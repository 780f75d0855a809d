package testing

var (
	// TestNTAG213UID is a sample 7-byte NTAG213 UID
	TestNTAG213UID = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}

	// TestMIFARE1KUID is a sample 4-byte MIFARE Classic 1K UID
	TestMIFARE1KUID = []byte{0x12, 0x34, 0x56, 0x78}

	// TestTripleUID is a sample 10-byte UID
	TestTripleUID = []byte{0x08, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
)

// TagState is the ISO 14443-3 state of a card in the field
type TagState int

const (
	TagIdle TagState = iota
	TagReady
	TagActive
	TagHalt
)

// VirtualTag represents a simulated ISO 14443A card
type VirtualTag struct {
	Type  string
	UID   []byte
	SAK   byte
	State TagState
	// level is the cascade level the card expects next while TagReady
	level int
}

// NewVirtualNTAG213 creates a virtual NTAG213 (7-byte UID, SAK 0x00)
func NewVirtualNTAG213(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestNTAG213UID
	}
	return &VirtualTag{Type: "NTAG213", UID: uid, SAK: 0x00}
}

// NewVirtualMIFARE1K creates a virtual MIFARE Classic 1K (4-byte UID, SAK 0x08)
func NewVirtualMIFARE1K(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestMIFARE1KUID
	}
	return &VirtualTag{Type: "MIFARE1K", UID: uid, SAK: 0x08}
}

// NewVirtualTag creates a virtual card with an arbitrary 4, 7 or 10 byte UID
func NewVirtualTag(uid []byte, sak byte) *VirtualTag {
	return &VirtualTag{Type: "generic", UID: uid, SAK: sak}
}

// ATQA encodes the UID size in bits 7..6 of the first byte
func (t *VirtualTag) ATQA() []byte {
	switch len(t.UID) {
	case 7:
		return []byte{0x44, 0x00}
	case 10:
		return []byte{0x84, 0x00}
	default:
		return []byte{0x04, 0x00}
	}
}

// cascadeLevels returns the number of cascade levels the UID spans
func (t *VirtualTag) cascadeLevels() int {
	switch len(t.UID) {
	case 7:
		return 2
	case 10:
		return 3
	default:
		return 1
	}
}

// chunk returns the four UID CLn bytes for a cascade level
func (t *VirtualTag) chunk(level int) []byte {
	last := t.cascadeLevels() - 1
	if level > last {
		return nil
	}
	start := level * 3
	if level == last {
		return append([]byte(nil), t.UID[start:start+4]...)
	}
	return append([]byte{0x88}, t.UID[start:start+3]...)
}
