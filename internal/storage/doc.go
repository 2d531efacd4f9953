// Package storage is the key-value adapter the session and collection packages persist through.
//
// A [Store] wraps a [Backend] (SQLite, Redis or memory, see package repositories) with JSON
// encoding and default-value fallback:
//
//   - [Get] never fails. Missing keys, backend read errors and malformed JSON all yield the
//     caller's default, with a logged diagnostic for the latter two.
//   - [Store.Set] and [Store.Remove] report backend errors to the caller.
//   - [Update] performs a read-modify-write of one key.
//
// Every operation runs under a single mutex, so the Store is the sole owner of the backend and a
// read issued after a successful write always observes it.
package storage
