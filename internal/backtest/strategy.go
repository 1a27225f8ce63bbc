package backtest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExitPrice selects which price of the exit day closes the position.
type ExitPrice string

const (
	ExitNextOpen  ExitPrice = "next_open"
	ExitNextClose ExitPrice = "next_close"
)

// StrategyRow is the stability contract between the engine and strategy
// plugins: strategies may depend on these columns and nothing else.
type StrategyRow struct {
	TsCode       string
	TradeDate    string
	Open         decimal.Decimal
	Close        decimal.Decimal
	LabelLimitUp bool
	LabelOneWord bool
	LabelSealed  bool
	StreakUp     int
}

// Strategy decides which tradable limit-up rows become entries and how the
// resulting position exits. The engine has already applied the fill model;
// Enter is only consulted for rows the model considers tradable.
type Strategy interface {
	Name() string
	ExitAt() ExitPrice
	Enter(row StrategyRow) bool
}

// FirstLimitUpNextClose buys the first board of a streak (streak_up == 1)
// and sells at the next observed trading day's close.
type FirstLimitUpNextClose struct{}

func (FirstLimitUpNextClose) Name() string      { return "first_limitup_next_close" }
func (FirstLimitUpNextClose) ExitAt() ExitPrice { return ExitNextClose }

func (FirstLimitUpNextClose) Enter(row StrategyRow) bool {
	return row.LabelLimitUp && row.StreakUp == 1
}

// NonOneWordLimitUpNextOpen buys any non-one-word limit-up day and sells at
// the next observed trading day's open.
type NonOneWordLimitUpNextOpen struct{}

func (NonOneWordLimitUpNextOpen) Name() string      { return "non_one_word_limitup_next_open" }
func (NonOneWordLimitUpNextOpen) ExitAt() ExitPrice { return ExitNextOpen }

func (NonOneWordLimitUpNextOpen) Enter(row StrategyRow) bool {
	return row.LabelLimitUp && !row.LabelOneWord
}

var strategies = map[string]Strategy{
	FirstLimitUpNextClose{}.Name():     FirstLimitUpNextClose{},
	NonOneWordLimitUpNextOpen{}.Name(): NonOneWordLimitUpNextOpen{},
}

// StrategyByName looks up a built-in strategy.
func StrategyByName(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// StrategyNames returns the registered strategy names.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	return names
}
