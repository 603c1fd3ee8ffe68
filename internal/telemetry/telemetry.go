// Package telemetry collects in-process scan metrics: request counters,
// duration percentiles, per-CWE finding counts, and drift alerts against a
// recorded baseline.
package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Alert thresholds.
const (
	criticalFindingsThreshold = 5
	timeoutRateThreshold      = 0.10
	driftWarnThreshold        = 0.10
	driftCriticalThreshold    = 0.25
	cweIncreaseThreshold      = 0.50
)

// durationWindow bounds the sliding window used for percentiles.
const durationWindow = 100

// Alert is one active metric alert.
type Alert struct {
	Level   string            `json:"level"` // warning or critical
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Snapshot is a point-in-time copy of the collected metrics.
type Snapshot struct {
	ScansTotal        int            `json:"scans_total"`
	SuppressionsTotal int            `json:"suppressions_total"`
	TimeoutsTotal     int            `json:"timeouts_total"`
	FindingsByCWE     map[string]int `json:"findings_by_cwe"`
	DurationP50       time.Duration  `json:"duration_p50"`
	DurationP90       time.Duration  `json:"duration_p90"`
}

// Collector accumulates metrics across scans. Safe for concurrent use.
type Collector struct {
	mu sync.Mutex

	scans        int
	suppressions int
	timeouts     int
	findings     int
	byCWE        map[string]int
	durations    []time.Duration // sliding window, oldest first

	baselineRate  float64
	baselineByCWE map[string]int
	haveBaseline  bool
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		byCWE:         map[string]int{},
		baselineByCWE: map[string]int{},
	}
}

// RecordScan records one scan request: its duration, per-CWE finding
// counts, how many findings were suppressed, and whether it timed out.
func (c *Collector) RecordScan(duration time.Duration, cwes []string, suppressed int, timedOut bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scans++
	c.suppressions += suppressed
	c.findings += len(cwes)
	if timedOut {
		c.timeouts++
	}
	for _, cwe := range cwes {
		if cwe == "" {
			cwe = "CWE-000"
		}
		c.byCWE[cwe]++
	}
	c.durations = append(c.durations, duration)
	if len(c.durations) > durationWindow {
		c.durations = c.durations[len(c.durations)-durationWindow:]
	}
}

// SetBaseline records the reference suppression rate and per-CWE counts
// that drift alerts compare against.
func (c *Collector) SetBaseline(suppressionRate float64, byCWE map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.baselineRate = suppressionRate
	c.baselineByCWE = make(map[string]int, len(byCWE))
	for k, v := range byCWE {
		c.baselineByCWE[k] = v
	}
	c.haveBaseline = true
}

// SuppressionRate is suppressed findings over total findings, 0 when no
// findings were seen.
func (c *Collector) SuppressionRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suppressionRateLocked()
}

func (c *Collector) suppressionRateLocked() float64 {
	if c.findings == 0 {
		return 0
	}
	return float64(c.suppressions) / float64(c.findings)
}

// Snapshot copies the current metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	byCWE := make(map[string]int, len(c.byCWE))
	for k, v := range c.byCWE {
		byCWE[k] = v
	}
	return Snapshot{
		ScansTotal:        c.scans,
		SuppressionsTotal: c.suppressions,
		TimeoutsTotal:     c.timeouts,
		FindingsByCWE:     byCWE,
		DurationP50:       c.percentileLocked(0.50),
		DurationP90:       c.percentileLocked(0.90),
	}
}

func (c *Collector) percentileLocked(p float64) time.Duration {
	if len(c.durations) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(c.durations))
	copy(sorted, c.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// Alerts evaluates the alert rules against the current metrics.
func (c *Collector) Alerts() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	var alerts []Alert

	critical := c.byCWE["CWE-120"] + c.byCWE["CWE-121"] + c.byCWE["CWE-122"]
	if critical >= criticalFindingsThreshold {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Message: fmt.Sprintf("high number of buffer overflow findings: %d", critical),
			Details: map[string]string{"critical_findings": fmt.Sprintf("%d", critical)},
		})
	}

	if c.scans > 0 {
		timeoutRate := float64(c.timeouts) / float64(c.scans)
		if timeoutRate > timeoutRateThreshold {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Message: fmt.Sprintf("high timeout rate: %.0f%%", timeoutRate*100),
				Details: map[string]string{"timeout_rate": fmt.Sprintf("%.2f", timeoutRate)},
			})
		}
	}

	if c.haveBaseline && c.findings > 0 {
		rate := c.suppressionRateLocked()
		drift := rate - c.baselineRate
		if drift < 0 {
			drift = -drift
		}
		if drift >= driftWarnThreshold {
			level := "warning"
			if drift >= driftCriticalThreshold {
				level = "critical"
			}
			alerts = append(alerts, Alert{
				Level:   level,
				Message: fmt.Sprintf("suppression rate drift: %.0f%% (baseline %.0f%%)", rate*100, c.baselineRate*100),
				Details: map[string]string{
					"current_rate":  fmt.Sprintf("%.2f", rate),
					"baseline_rate": fmt.Sprintf("%.2f", c.baselineRate),
					"drift":         fmt.Sprintf("%.2f", drift),
				},
			})
		}

		for cwe, count := range c.byCWE {
			base := c.baselineByCWE[cwe]
			if base == 0 {
				continue
			}
			increase := float64(count-base) / float64(base)
			if increase > cweIncreaseThreshold {
				alerts = append(alerts, Alert{
					Level:   "warning",
					Message: fmt.Sprintf("unusual increase in %s findings: +%.0f%%", cwe, increase*100),
					Details: map[string]string{
						"cwe":            cwe,
						"current_count":  fmt.Sprintf("%d", count),
						"baseline_count": fmt.Sprintf("%d", base),
					},
				})
			}
		}
	}

	return alerts
}

// Reset clears all metrics and the baseline.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scans = 0
	c.suppressions = 0
	c.timeouts = 0
	c.findings = 0
	c.byCWE = map[string]int{}
	c.durations = nil
	c.baselineRate = 0
	c.baselineByCWE = map[string]int{}
	c.haveBaseline = false
}
