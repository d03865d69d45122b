// Package config handles resolving configuration.
package config

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
)

// Defaults of the query configuration.
const (
	DefaultTestIDAttribute        = "data-testid"
	DefaultAsyncUtilTimeout       = time.Second
	DefaultAsyncUtilExpectedState = browser.StateVisible
	DefaultSerializationDepth     = codec.DefaultMaxDepth
)

// Config is the query configuration in effect for one test. It is passed by
// value and never changes once a query starts.
type Config struct {
	// TestIDAttribute is the attribute ByTestId queries read.
	TestIDAttribute string
	// AsyncUtilTimeout is the default wait budget of find queries.
	AsyncUtilTimeout time.Duration
	// AsyncUtilExpectedState is the default state find queries wait for.
	AsyncUtilExpectedState browser.State
	// SerializationDepth bounds the argument codec's walk.
	SerializationDepth int
}

// Default returns the default query configuration.
func Default() Config {
	return Config{
		TestIDAttribute:        DefaultTestIDAttribute,
		AsyncUtilTimeout:       DefaultAsyncUtilTimeout,
		AsyncUtilExpectedState: DefaultAsyncUtilExpectedState,
		SerializationDepth:     DefaultSerializationDepth,
	}
}

// Codec returns the argument codec for c.
func (c Config) Codec() *codec.Codec {
	return codec.New(codec.WithMaxDepth(c.SerializationDepth))
}

// Delta is a partial Config. Only valid fields are applied.
type Delta struct {
	TestIDAttribute null.String
	// AsyncUtilTimeout is in milliseconds.
	AsyncUtilTimeout       null.Int
	AsyncUtilExpectedState null.String
	SerializationDepth     null.Int
}

// Func derives a Delta from the configuration currently in effect.
type Func func(Config) Delta

// Apply returns c with the valid fields of d copied over.
func (c Config) Apply(d Delta) Config {
	if d.TestIDAttribute.Valid {
		c.TestIDAttribute = d.TestIDAttribute.String
	}
	if d.AsyncUtilTimeout.Valid {
		c.AsyncUtilTimeout = time.Duration(d.AsyncUtilTimeout.Int64) * time.Millisecond
	}
	if d.AsyncUtilExpectedState.Valid {
		c.AsyncUtilExpectedState = browser.State(d.AsyncUtilExpectedState.String)
	}
	if d.SerializationDepth.Valid {
		c.SerializationDepth = int(d.SerializationDepth.Int64)
	}
	return c
}

// Merge returns d with the valid fields of other copied over.
func (d Delta) Merge(other Delta) Delta {
	if other.TestIDAttribute.Valid {
		d.TestIDAttribute = other.TestIDAttribute
	}
	if other.AsyncUtilTimeout.Valid {
		d.AsyncUtilTimeout = other.AsyncUtilTimeout
	}
	if other.AsyncUtilExpectedState.Valid {
		d.AsyncUtilExpectedState = other.AsyncUtilExpectedState
	}
	if other.SerializationDepth.Valid {
		d.SerializationDepth = other.SerializationDepth
	}
	return d
}

// Validate checks c against the configuration rules.
func (c Config) Validate() error {
	return libraryRules.validate(c.activation())
}

func (c Config) activation() map[string]any {
	return map[string]any{
		"test_id_attribute":         c.TestIDAttribute,
		"async_util_timeout":        c.AsyncUtilTimeout.Milliseconds(),
		"async_util_expected_state": string(c.AsyncUtilExpectedState),
		"serialization_depth":       int64(c.SerializationDepth),
	}
}
