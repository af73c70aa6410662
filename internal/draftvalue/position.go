package draftvalue

import "strings"

const (
	PosQB  = "QB"
	PosRB  = "RB"
	PosWR  = "WR"
	PosTE  = "TE"
	PosK   = "K"
	PosDEF = "DEF"
	PosDL  = "DL"
	PosLB  = "LB"
	PosDB  = "DB"
)

var knownPositions = map[string]bool{
	PosQB: true, PosRB: true, PosWR: true, PosTE: true, PosK: true,
	PosDEF: true, PosDL: true, PosLB: true, PosDB: true,
}

var positionAliases = map[string]string{
	"DST":     PosDEF,
	"D/ST":    PosDEF,
	"DEFENSE": PosDEF,
	"D":       PosDEF,
	"PK":      PosK,
	"P":       PosK,
	"HB":      PosRB,
	"FB":      PosRB,
	"WRR":     PosWR,
}

// NormalizePosition maps platform position strings onto one vocabulary.
// Unknown strings fall back to a known two-letter prefix ("QB1" -> "QB"),
// else the upper-cased input.
func NormalizePosition(raw string) string {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	if pos == "" {
		return ""
	}
	if alias, ok := positionAliases[pos]; ok {
		return alias
	}
	if knownPositions[pos] {
		return pos
	}
	if len(pos) >= 2 && knownPositions[pos[:2]] {
		return pos[:2]
	}
	return pos
}
