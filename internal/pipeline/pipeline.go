// Package pipeline wires the labeling, return, statistics and backtest
// stages into one deterministic batch pass over the input tables.
package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/backtest"
	"github.com/trogers1052/limitup-lab/internal/labels"
	"github.com/trogers1052/limitup-lab/internal/models"
	"github.com/trogers1052/limitup-lab/internal/returns"
	"github.com/trogers1052/limitup-lab/internal/rules"
	"github.com/trogers1052/limitup-lab/internal/stats"
)

// Config is the immutable run-wide configuration. It is passed explicitly
// into every stage; no stage reads process-wide state.
type Config struct {
	Ruleset  *rules.Ruleset
	Epsilon  decimal.Decimal
	Costs    backtest.Costs
	Strategy backtest.Strategy
	GroupBy  []string
	// Workers bounds the per-instrument parallelism. Zero means NumCPU.
	Workers int
}

// Result is the full output contract of one run.
type Result struct {
	Labeled      []models.LabeledBar
	Stats        []models.GroupStat
	Ideal        backtest.Result
	Conservative backtest.Result
	Comparison   models.ScenarioComparison
	// Diagnostics records non-fatal conditions, currently unknown-board
	// fallbacks. Streak resets on calendar gaps are expected behavior and
	// are not reported here.
	Diagnostics []string
}

// Run validates the input tables, derives labels, streaks and forward
// returns per instrument in parallel, then aggregates group statistics and
// runs the backtest under both fill models.
//
// Per-instrument work is partitioned by ts_code with no cross-worker
// communication; the aggregation stages run only after every worker has
// finished. Given identical inputs and configuration, two runs produce
// identical output.
func Run(bars []models.DailyBar, instruments []models.Instrument, cfg Config) (*Result, error) {
	if cfg.Ruleset == nil {
		cfg.Ruleset = rules.Defaults()
	}
	if cfg.Epsilon.Sign() <= 0 {
		cfg.Epsilon = labels.DefaultEpsilon
	}
	if cfg.Strategy == nil {
		cfg.Strategy = backtest.FirstLimitUpNextClose{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Fail fast on schema errors before any computation.
	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	if err := models.ValidateInstruments(instruments); err != nil {
		return nil, err
	}

	instrumentsByCode := make(map[string]models.Instrument, len(instruments))
	for _, inst := range instruments {
		instrumentsByCode[inst.TsCode] = inst
	}

	// Suspended rows (zero volume) never carry tradable information.
	bars = labels.ExcludeSuspended(bars)

	barsByCode := make(map[string][]models.DailyBar)
	allDates := make([]string, 0, len(bars))
	for _, bar := range bars {
		barsByCode[bar.TsCode] = append(barsByCode[bar.TsCode], bar)
		allDates = append(allDates, bar.TradeDate)
	}
	for _, instrumentBars := range barsByCode {
		sort.Slice(instrumentBars, func(i, j int) bool {
			return instrumentBars[i].TradeDate < instrumentBars[j].TradeDate
		})
	}
	calendar := labels.NewCalendar(allDates)

	codes := make([]string, 0, len(barsByCode))
	for code := range barsByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	type instrumentOutput struct {
		rows         []models.LabeledBar
		unknownBoard bool
		board        string
		err          error
	}
	outputs := make([]instrumentOutput, len(codes))

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				code := codes[idx]
				instrumentBars := barsByCode[code]
				inst, ok := instrumentsByCode[code]
				if !ok {
					inst = models.Instrument{TsCode: code, Board: models.BoardUnknown}
				}

				rule, known := cfg.Ruleset.Resolve(inst.Board, inst.IsST)
				dates := make([]string, len(instrumentBars))
				for i, b := range instrumentBars {
					dates[i] = b.TradeDate
				}
				applicable := rules.ApplicableDays(inst, dates, rule)

				rows, err := labels.LabelInstrument(instrumentBars, rule, applicable, calendar, cfg.Epsilon)
				if err != nil {
					outputs[idx] = instrumentOutput{err: err}
					continue
				}
				returns.AddNextDayReturns(rows)
				outputs[idx] = instrumentOutput{rows: rows, unknownBoard: !known, board: inst.Board}
			}
		}()
	}
	for idx := range codes {
		work <- idx
	}
	close(work)
	wg.Wait()

	// Barrier reached: concatenate per-instrument results in code order and
	// run the stateful reductions.
	result := &Result{}
	rowsByCode := make(map[string][]models.LabeledBar, len(codes))
	for idx, code := range codes {
		out := outputs[idx]
		if out.err != nil {
			return nil, fmt.Errorf("failed to label %s: %w", code, out.err)
		}
		if out.unknownBoard {
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("unknown board %q for %s: fell back to MAIN rule; fill-rate statistics may be skewed", out.board, code))
		}
		rowsByCode[code] = out.rows
		result.Labeled = append(result.Labeled, out.rows...)
	}

	groupStats, err := stats.Compute(result.Labeled, instrumentsByCode, cfg.GroupBy)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate group stats: %w", err)
	}
	result.Stats = groupStats

	// Rows inside the IPO unlimited window never become trade candidates.
	triggersByCode := make(map[string][]models.LabeledBar, len(codes))
	for code, rows := range rowsByCode {
		triggersByCode[code] = labels.ExcludeUnlimitedDays(rows)
	}
	result.Ideal, result.Conservative, result.Comparison = backtest.Compare(triggersByCode, cfg.Strategy, cfg.Costs)

	return result, nil
}
