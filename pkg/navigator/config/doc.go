/*
Package config provides typed, default-tolerant access to loosely typed
configuration trees such as those decoded from YAML, JSON or TOML.

# Overview

A Config wraps a map[string]any. Accessors take a key and a default, and
return the default whenever the key is missing or holds a value that cannot
be converted without loss. Keys may be dotted paths into nested maps:

	cfg, err := config.FromFile("navigator.toml")
	if err != nil {
	    log.Fatal(err)
	}

	delay := cfg.Duration("navigator.auto_resume_delay", 700*time.Millisecond)
	cover := cfg.Bool("navigator.cover_supported", true)

A nested map can also be lifted out as its own Config:

	nav := cfg.Section("navigator")
	level := nav.String("log_level", "info")

# Durations

Duration accepts a string understood by time.ParseDuration ("700ms",
"1.5s"), a number interpreted as seconds, or a time.Duration.

# File Loading

FromFile picks a decoder by extension: .yaml, .yml, .json or .toml.
FromYAML, FromJSON and FromTOML decode from bytes.

# Thread Safety

A Config is read-only after creation and safe for concurrent reads. Merge
returns a new Config and leaves both inputs untouched.
*/
package config
