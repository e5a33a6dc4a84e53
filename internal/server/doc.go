// Package server wires the Echo HTTP server: routes, cookie sessions, the
// Google OAuth bridge and all request handlers. Handlers load the relevant
// store(s), mutate in memory, persist and respond; they hold no state of
// their own beyond the injected repositories.
package server
