package ico

var (
	tagPhase              = byte(0x01)
	tagPause              = byte(0x02)
	tagToken              = byte(0x03)
	tagTreasury           = byte(0x04)
	tagTotalContributions = byte(0x05)
	tagWhitelist          = byte(0x10)
	tagContribution       = byte(0x11)
	tagPurchased          = byte(0x12)
	tagClaimed            = byte(0x13)
)
