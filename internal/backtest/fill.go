package backtest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// FillModel is an assumption about which limit-up days are actually tradable
// and at what price. Running the same trigger set under both models and
// diffing the metrics bounds the backtest's fill optimism.
type FillModel string

const (
	// Ideal assumes every limit-up day fills at the close.
	Ideal FillModel = models.FillModelIdeal
	// Conservative refuses sealed and one-word boards; only limit-up days
	// that re-opened intraday are assumed fillable, at the close.
	Conservative FillModel = models.FillModelConservative
)

// ParseFillModel normalizes a fill-model name.
func ParseFillModel(s string) (FillModel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case models.FillModelIdeal:
		return Ideal, nil
	case models.FillModelConservative:
		return Conservative, nil
	}
	return "", fmt.Errorf("unknown fill model %q", s)
}

// Fill is the per-row fill-model verdict.
type Fill struct {
	Tradable  bool
	FillPrice decimal.Decimal
}

// Annotate decides tradability and fill price for one limit-up row.
// Non-limit-up rows are never trigger candidates and come back non-tradable.
func (m FillModel) Annotate(row models.LabeledBar) Fill {
	if !row.LabelLimitUp {
		return Fill{}
	}
	if m == Conservative && (row.LabelSealed || row.LabelOneWord) {
		return Fill{}
	}
	return Fill{Tradable: true, FillPrice: row.Close}
}
