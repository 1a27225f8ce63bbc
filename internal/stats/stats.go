// Package stats aggregates labeled rows into grouped distributional
// summaries of the forward returns.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// DefaultGroupColumns is the grouping used by the canonical report.
var DefaultGroupColumns = []string{"board", "is_st", "streak_up", "label_one_word", "label_opened"}

var allowedGroupColumns = map[string]bool{
	"board":          true,
	"is_st":          true,
	"streak_up":      true,
	"label_one_word": true,
	"label_opened":   true,
}

// Compute groups labeled rows by the requested categorical columns and
// reports count, mean, p10, p50 and p90 of next_open_ret and next_close_ret
// per group. Rows with both returns missing are excluded; within a group a
// missing value is excluded from that column's aggregate rather than coerced
// to zero. Output order is deterministic (sorted group keys).
func Compute(rows []models.LabeledBar, instruments map[string]models.Instrument, by []string) ([]models.GroupStat, error) {
	if len(by) == 0 {
		by = DefaultGroupColumns
	}
	for _, col := range by {
		if !allowedGroupColumns[col] {
			return nil, fmt.Errorf("unsupported group column %q", col)
		}
	}

	type bucket struct {
		groups    map[string]string
		count     int
		nextOpen  []float64
		nextClose []float64
	}
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		if row.NextOpenRet == nil && row.NextCloseRet == nil {
			continue
		}
		groups := make(map[string]string, len(by))
		for _, col := range by {
			groups[col] = groupValue(row, instruments, col)
		}
		key := bucketKey(groups, by)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{groups: groups}
			buckets[key] = b
		}
		b.count++
		if row.NextOpenRet != nil {
			b.nextOpen = append(b.nextOpen, *row.NextOpenRet)
		}
		if row.NextCloseRet != nil {
			b.nextClose = append(b.nextClose, *row.NextCloseRet)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]models.GroupStat, 0, len(buckets))
	for _, key := range keys {
		b := buckets[key]
		result = append(result, models.GroupStat{
			Groups:    b.groups,
			Count:     b.count,
			NextOpen:  summarize(b.nextOpen),
			NextClose: summarize(b.nextClose),
		})
	}
	return result, nil
}

func groupValue(row models.LabeledBar, instruments map[string]models.Instrument, col string) string {
	switch col {
	case "board":
		if inst, ok := instruments[row.TsCode]; ok && inst.Board != "" {
			return inst.Board
		}
		return models.BoardUnknown
	case "is_st":
		inst := instruments[row.TsCode]
		return strconv.FormatBool(inst.IsST)
	case "streak_up":
		return strconv.Itoa(row.StreakUp)
	case "label_one_word":
		return strconv.FormatBool(row.LabelOneWord)
	case "label_opened":
		return strconv.FormatBool(row.LabelOpened)
	}
	return ""
}

// bucketKey builds a sortable composite key. streak_up values are padded so
// the lexicographic order matches the numeric order.
func bucketKey(groups map[string]string, by []string) string {
	parts := make([]string, len(by))
	for i, col := range by {
		v := groups[col]
		if col == "streak_up" {
			n, _ := strconv.Atoi(v)
			parts[i] = fmt.Sprintf("%06d", n)
		} else {
			parts[i] = v
		}
	}
	return strings.Join(parts, "|")
}

// summarize computes the distributional summary of one return column.
// Quantiles use linear interpolation between order statistics.
func summarize(values []float64) models.ReturnSummary {
	if len(values) == 0 {
		return models.ReturnSummary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return models.ReturnSummary{
		Count: len(sorted),
		Mean:  sum / float64(len(sorted)),
		P10:   Quantile(sorted, 0.10),
		P50:   Quantile(sorted, 0.50),
		P90:   Quantile(sorted, 0.90),
	}
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation. values must be sorted ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
