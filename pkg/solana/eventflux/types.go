package eventflux

const (
	MaxTierCount       = 4
	MaxVerifierCount   = 5
	MaxNameLength      = 64
	MaxVenueLength     = 64
	MaxTierLabelLength = 32
)

// YieldStrategy selects the venue idle treasury funds are routed to.
type YieldStrategy uint8

const (
	YieldStrategyNone YieldStrategy = iota
	YieldStrategyKamino
	YieldStrategySanctum
)

func putYieldStrategy(dst []byte, v YieldStrategy, offset *int) {
	putUint8(dst, uint8(v), offset)
}

func getYieldStrategy(src []byte, dst *YieldStrategy, offset *int) {
	var v uint8
	getUint8(src, &v, offset)
	*dst = YieldStrategy(v)
}

// TierConfig is the stored form of a ticket tier, tracking sales against the
// configured cap.
type TierConfig struct {
	TierID        uint8
	Label         string
	PriceLamports uint64
	MaxSupply     uint32
	Sold          uint32
}

func (t *TierConfig) Size() int {
	return 1 + // tier_id
		4 + len(t.Label) + // label
		8 + // price_lamports
		4 + // max_supply
		4 // sold
}

func putTierConfig(dst []byte, v TierConfig, offset *int) {
	putUint8(dst, v.TierID, offset)
	putString(dst, v.Label, offset)
	putUint64(dst, v.PriceLamports, offset)
	putUint32(dst, v.MaxSupply, offset)
	putUint32(dst, v.Sold, offset)
}

func getTierConfig(src []byte, dst *TierConfig, offset *int) bool {
	if !canRead(src, *offset, 1) {
		return false
	}
	getUint8(src, &dst.TierID, offset)

	if !getString(src, &dst.Label, offset) {
		return false
	}

	if !canRead(src, *offset, 8+4+4) {
		return false
	}
	getUint64(src, &dst.PriceLamports, offset)
	getUint32(src, &dst.MaxSupply, offset)
	getUint32(src, &dst.Sold, offset)
	return true
}

// TierInput is the creation-time form of a tier, before any sales.
type TierInput struct {
	TierID        uint8
	Label         string
	PriceLamports uint64
	MaxSupply     uint32
}

func (t *TierInput) Size() int {
	return 1 + // tier_id
		4 + len(t.Label) + // label
		8 + // price_lamports
		4 // max_supply
}

func putTierInput(dst []byte, v TierInput, offset *int) {
	putUint8(dst, v.TierID, offset)
	putString(dst, v.Label, offset)
	putUint64(dst, v.PriceLamports, offset)
	putUint32(dst, v.MaxSupply, offset)
}

func getTierInput(src []byte, dst *TierInput, offset *int) bool {
	if !canRead(src, *offset, 1) {
		return false
	}
	getUint8(src, &dst.TierID, offset)

	if !getString(src, &dst.Label, offset) {
		return false
	}

	if !canRead(src, *offset, 8+4) {
		return false
	}
	getUint64(src, &dst.PriceLamports, offset)
	getUint32(src, &dst.MaxSupply, offset)
	return true
}
