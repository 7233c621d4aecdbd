// Package storage provides the object-storage client used as the remote
// master-sheet source.
//
// The remotely edited spreadsheet is exported into a bucket (one object per
// master sheet), and this package wraps the MinIO SDK behind a small Client
// interface so that the reconcile feature can fetch sheets without knowing
// the provider. The interface is intentionally limited to the operations the
// application performs, which keeps the testify mock in mocks/ small.
//
// # Timeouts
//
// The underlying HTTP transport carries strict connection, TLS, and
// response-header timeouts derived from Config.TimeoutSeconds, so a dead
// endpoint fails a sync instead of hanging it.
package storage
