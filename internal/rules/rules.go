package rules

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// Rule holds the limit percentages and the IPO unlimited-day window for one
// board/ST classification. Percentages are decimal fractions (0.10 == 10%).
type Rule struct {
	LimitUp          decimal.Decimal
	LimitDown        decimal.Decimal
	IPOUnlimitedDays int
}

// Ruleset maps board keys to rules. ST is a key of its own and overrides the
// board classification whenever is_st is true.
type Ruleset struct {
	rules map[string]Rule
}

const stKey = "ST"

// Defaults returns the baseline exchange rules: main board 10%, risk-warning
// (ST) 5%, STAR and ChiNext 20% with a five trading-day IPO window.
func Defaults() *Ruleset {
	return &Ruleset{rules: map[string]Rule{
		models.BoardMain:    {LimitUp: decimal.NewFromFloat(0.10), LimitDown: decimal.NewFromFloat(0.10), IPOUnlimitedDays: 1},
		stKey:               {LimitUp: decimal.NewFromFloat(0.05), LimitDown: decimal.NewFromFloat(0.05), IPOUnlimitedDays: 1},
		models.BoardStar:    {LimitUp: decimal.NewFromFloat(0.20), LimitDown: decimal.NewFromFloat(0.20), IPOUnlimitedDays: 5},
		models.BoardChinext: {LimitUp: decimal.NewFromFloat(0.20), LimitDown: decimal.NewFromFloat(0.20), IPOUnlimitedDays: 5},
	}}
}

// ruleFile is the YAML shape of one board's override entry. Absent fields
// keep the default value.
type ruleFile struct {
	LimitUp          *float64 `yaml:"limit_up"`
	LimitDown        *float64 `yaml:"limit_down"`
	IPOUnlimitedDays *int     `yaml:"ipo_unlimited_days"`
}

// Load reads a YAML rule file and merges it over the defaults. A missing
// path returns the defaults unchanged.
func Load(path string) (*Ruleset, error) {
	rs := Defaults()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rs, nil
		}
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var loaded map[string]ruleFile
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	for board, overrides := range loaded {
		rule := rs.rules[board]
		if overrides.LimitUp != nil {
			rule.LimitUp = decimal.NewFromFloat(*overrides.LimitUp)
		}
		if overrides.LimitDown != nil {
			rule.LimitDown = decimal.NewFromFloat(*overrides.LimitDown)
		}
		if overrides.IPOUnlimitedDays != nil {
			rule.IPOUnlimitedDays = *overrides.IPOUnlimitedDays
		}
		rs.rules[board] = rule
	}
	return rs, nil
}

// Boards returns the configured board keys in sorted order.
func (rs *Ruleset) Boards() []string {
	boards := make([]string, 0, len(rs.rules))
	for board := range rs.rules {
		boards = append(boards, board)
	}
	sort.Strings(boards)
	return boards
}

// Resolve returns the rule for a board/ST combination. ST status takes
// precedence over the board classification. The second return value is false
// when the board was unknown and the MAIN rule was used as a fallback; the
// caller records that as a non-fatal diagnostic.
func (rs *Ruleset) Resolve(board string, isST bool) (Rule, bool) {
	if isST {
		if rule, ok := rs.rules[stKey]; ok {
			return rule, true
		}
	}
	if rule, ok := rs.rules[board]; ok {
		return rule, true
	}
	return rs.rules[models.BoardMain], false
}

var one = decimal.NewFromInt(1)

// LimitUpPrice computes round_half_up(preClose * (1 + pct), 2) in exact
// decimal arithmetic. decimal.Round rounds half away from zero, which for
// positive prices is half up.
func LimitUpPrice(preClose, pct decimal.Decimal) decimal.Decimal {
	return preClose.Mul(one.Add(pct)).Round(2)
}

// LimitDownPrice computes round_half_up(preClose * (1 - pct), 2).
func LimitDownPrice(preClose, pct decimal.Decimal) decimal.Decimal {
	return preClose.Mul(one.Sub(pct)).Round(2)
}
