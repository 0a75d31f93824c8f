// Package store provides the key-value persistence used by the repositories.
// Values are JSON documents addressed by string keys, the same shape a browser
// key-value storage would hold. The only backend is SQLite in WAL mode.
package store
