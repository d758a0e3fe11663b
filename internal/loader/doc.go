// Package loader applies ordered sequences of configuration lines to a
// storage.Storage. Each qualifying line is parsed, coerced to its field's
// type, and stored; unknown fields and type mismatches are reported as
// diagnostics without stopping the load. Later sources override earlier ones.
package loader
