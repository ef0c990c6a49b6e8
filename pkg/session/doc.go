// Package session reconciles the locally persisted submission identity with
// the lifecycle on (re)start: it resumes an in-flight submission after a page
// reload, or clears a stale identity so the user can start fresh.
//
// The Manager is the single writer of the persisted identity. Concurrent
// resume requests for the same identity collapse to one in-flight fetch.
package session
