// Package schema defines the fixed set of warehouse simulation fields, their
// semantic kinds, and the typed Configuration they are stored in. Field
// resolution by name goes through a static dispatch table built once at
// startup, so no runtime type introspection is involved.
package schema
