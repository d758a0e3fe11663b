// Package application provides application initialization and dependency wiring.
// It encapsulates the creation of the configuration store, loader, console
// printer, and interactive query session, and runs them in their fixed phase
// order: base load, dump, override load, dump, interactive lookups.
package application
