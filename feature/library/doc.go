// Package library owns the CombinationConfig snapshot: the ordered
// collection of value libraries plus the collection-wide settings.
//
// Every mutation is copy-on-write: the current immutable snapshot is
// cloned, changed, optionally persisted, and swapped in atomically. Readers
// (the generation engine, export) always see a complete snapshot and never
// a torn mid-edit state. Conflicting writers are serialized by the swap
// lock with last-write-wins semantics; in particular a user edit racing an
// in-flight sync keeps whichever snapshot landed second.
//
// # HTTP Endpoints
//
//   - GET    /libraries            : list the collection
//   - POST   /libraries            : create a library
//   - PATCH  /libraries/:id        : partial update of user-set fields
//   - DELETE /libraries/:id        : delete a library
//   - GET    /config/export        : the full serialized config
//   - POST   /config/import        : replace the config wholesale
package library
