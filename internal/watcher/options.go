package watcher

import "time"

// DefaultSettleDelay is used when Options.SettleDelay is zero.
const DefaultSettleDelay = 500 * time.Millisecond

// Options configures the file watcher.
type Options struct {
	// SettleDelay is how long size and mtime must stay unchanged before a
	// change is reported. Analyzers write large batches in several chunks.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
}
