package limits

import "time"

// resetPeriod is the length of a daily counter window.
const resetPeriod = 24 * time.Hour

// dailyCounter is a value that drops to zero once its reset instant passes.
type dailyCounter[T int | float64] struct {
	value   T
	resetAt time.Time
}

// resetIfExpired zeroes the counter when now is past resetAt and starts a new
// window from now. Calls before resetAt are no-ops.
func (c *dailyCounter[T]) resetIfExpired(now time.Time) bool {
	if !now.After(c.resetAt) {
		return false
	}
	c.value = 0
	c.resetAt = now.Add(resetPeriod)
	return true
}

// Ledger holds per-client request history and the two daily counters.
//
// Ledger has no lock of its own. Every method assumes the caller holds the
// owning Controller's mutex.
type Ledger struct {
	history  map[string][]time.Time
	requests dailyCounter[int]
	cost     dailyCounter[float64]
}

// newLedger creates an empty ledger whose counters reset one day after now.
func newLedger(now time.Time) *Ledger {
	return &Ledger{
		history:  make(map[string][]time.Time),
		requests: dailyCounter[int]{resetAt: now.Add(resetPeriod)},
		cost:     dailyCounter[float64]{resetAt: now.Add(resetPeriod)},
	}
}

// prune drops timestamps for clientKey that are not after now-window and
// returns what remains. The key is kept even when nothing remains.
func (l *Ledger) prune(clientKey string, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	entries := l.history[clientKey]

	// History is chronological, so everything before the first kept entry goes.
	i := 0
	for i < len(entries) && !entries[i].After(cutoff) {
		i++
	}

	var kept []time.Time
	if i < len(entries) {
		kept = make([]time.Time, len(entries)-i)
		copy(kept, entries[i:])
	}
	l.history[clientKey] = kept
	return kept
}

// recordAccept charges an admitted request.
func (l *Ledger) recordAccept(clientKey string, now time.Time, flatCost float64) {
	l.history[clientKey] = append(l.history[clientKey], now)
	l.requests.value++
	l.cost.value += flatCost
}

// resetIfExpired applies the daily reset to both counters independently.
func (l *Ledger) resetIfExpired(now time.Time) (requestsReset, costReset bool) {
	return l.requests.resetIfExpired(now), l.cost.resetIfExpired(now)
}

// addCost adjusts the cost counter without touching its reset instant.
func (l *Ledger) addCost(amount float64) {
	l.cost.value += amount
}

// sweep removes clients with no entries inside the window and returns how
// many were removed.
func (l *Ledger) sweep(now time.Time, window time.Duration) int {
	removed := 0
	for key := range l.history {
		if len(l.prune(key, now, window)) == 0 {
			delete(l.history, key)
			removed++
		}
	}
	return removed
}
