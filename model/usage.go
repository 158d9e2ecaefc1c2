package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Usage counts the tokens consumed by one or more model turns.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Add accumulates other into u. A zero TotalTokens on other is derived
// from its prompt and completion counts.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	total := other.TotalTokens
	if total == 0 {
		total = other.PromptTokens + other.CompletionTokens
	}
	u.TotalTokens += total
}

// UsageStat is the aggregate of all calls made to one provider/model pair.
type UsageStat struct {
	Provider string
	Model    string
	Calls    int
	Usage
}

// UsageAggregator accumulates token usage per provider/model. It is safe for
// concurrent use.
type UsageAggregator struct {
	mu    sync.Mutex
	stats map[string]*UsageStat
}

// NewUsageAggregator returns an empty aggregator.
func NewUsageAggregator() *UsageAggregator {
	return &UsageAggregator{stats: map[string]*UsageStat{}}
}

// Record adds the usage of one call.
func (a *UsageAggregator) Record(provider, model string, u Usage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := provider + "/" + model
	stat, ok := a.stats[key]
	if !ok {
		stat = &UsageStat{Provider: provider, Model: model}
		a.stats[key] = stat
	}
	stat.Calls++
	stat.Add(u)
}

// Stats returns a snapshot sorted by provider then model.
func (a *UsageAggregator) Stats() []UsageStat {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]UsageStat, 0, len(a.stats))
	for _, s := range a.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Total returns the sum over all provider/model pairs.
func (a *UsageAggregator) Total() Usage {
	var total Usage
	for _, s := range a.Stats() {
		total.Add(s.Usage)
	}
	return total
}

// String renders one line per provider/model, for CLI summaries.
func (a *UsageAggregator) String() string {
	var b strings.Builder
	for _, s := range a.Stats() {
		fmt.Fprintf(&b, "%s (%s): calls=%d prompt=%d completion=%d total=%d\n",
			s.Provider, s.Model, s.Calls, s.PromptTokens, s.CompletionTokens, s.TotalTokens)
	}
	return b.String()
}
