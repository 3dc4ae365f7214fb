package domain

// Rank is a member of the service's fixed rank structure.
type Rank string

const (
	RankCGI  Rank = "CGI"
	RankDCG  Rank = "DCG"
	RankACG  Rank = "ACG"
	RankCI   Rank = "CI"
	RankDCI  Rank = "DCI"
	RankACI  Rank = "ACI"
	RankCSI  Rank = "CSI"
	RankSI   Rank = "SI"
	RankDSI  Rank = "DSI"
	RankASI1 Rank = "ASI 1"
	RankASI2 Rank = "ASI 2"
	RankII   Rank = "II"
	RankAII  Rank = "AII"
	RankSIA  Rank = "SIA"
	RankIA1  Rank = "IA 1"
	RankIA2  Rank = "IA 2"
	RankIA3  Rank = "IA 3"
)

// RankExempt is the single rank excluded from mandatory retirement.
const RankExempt = RankCGI

// rankOrder lists ranks from most to least senior. Position in this slice is
// the sort ordinal used by the default roster order.
var rankOrder = []Rank{
	RankCGI, RankDCG, RankACG, RankCI, RankDCI, RankACI,
	RankCSI, RankSI, RankDSI, RankASI1, RankASI2,
	RankII, RankAII, RankSIA, RankIA1, RankIA2, RankIA3,
}

var rankOrdinals = func() map[Rank]int {
	m := make(map[Rank]int, len(rankOrder))
	for i, r := range rankOrder {
		m[r] = i
	}
	return m
}()

// Ordinal returns the rank's position in the fixed order. Unrecognized ranks
// receive a sentinel ordinal greater than every known one, so they sort last.
func (r Rank) Ordinal() int {
	if ord, ok := rankOrdinals[r]; ok {
		return ord
	}
	return len(rankOrder)
}

// Known reports whether the rank belongs to the fixed rank structure.
func (r Rank) Known() bool {
	_, ok := rankOrdinals[r]
	return ok
}

// Exempt reports whether the rank is excluded from retirement processing.
func (r Rank) Exempt() bool {
	return r == RankExempt
}

// Ranks returns the fixed rank order, most senior first.
func Ranks() []Rank {
	out := make([]Rank, len(rankOrder))
	copy(out, rankOrder)
	return out
}
