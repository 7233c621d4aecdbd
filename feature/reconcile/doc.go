// Package reconcile merges external library sources into the running config.
// Imports apply replace or merge semantics to an uploaded collection; sync
// pulls every master sheet from object storage and overwrites value data in
// place while preserving locally tuned settings. Only one sync runs at a time.
package reconcile
