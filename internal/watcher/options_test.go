package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	assert.Equal(t, DefaultSettleDelay, opts.SettleDelay)
}

func TestOptions_CustomValues(t *testing.T) {
	opts := Options{SettleDelay: 200 * time.Millisecond}
	opts.setDefaults()

	assert.Equal(t, 200*time.Millisecond, opts.SettleDelay)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "changed", EventChanged.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(42).String())
}
