package evaluation

// Policy decides which partitions count and how a partition maps to a
// percentage.
type Policy struct {
	CatalogSize int
	MaxRawScore int
	// Denominator overrides MaxRawScore*CatalogSize when positive.
	Denominator float64
}

func NewPolicy(catalogSize, maxRawScore int, denominator float64) Policy {
	if maxRawScore <= 0 {
		maxRawScore = DefaultMaxRawScore
	}
	return Policy{CatalogSize: catalogSize, MaxRawScore: maxRawScore, Denominator: denominator}
}

// Complete reports whether a partition has one row per catalog aspect and no
// absence flag.
func (p Policy) Complete(part Partition) bool {
	return p.CatalogSize > 0 && len(part.Rows) == p.CatalogSize && !part.Absent
}

func (p Policy) denominator() float64 {
	if p.Denominator > 0 {
		return p.Denominator
	}
	return float64(p.MaxRawScore * p.CatalogSize)
}

// Percentage is sum(weighted_contribution) over the denominator, clamped to
// [0, 100].
func (p Policy) Percentage(part Partition) float64 {
	d := p.denominator()
	if d <= 0 {
		return 0
	}
	return clampPercent(part.Sum / d * 100)
}

// Score returns the partition percentage only for complete partitions.
func (p Policy) Score(part Partition) (float64, bool) {
	if !p.Complete(part) {
		return 0, false
	}
	return p.Percentage(part), true
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
