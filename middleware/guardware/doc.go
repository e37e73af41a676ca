// Package guardware provides the fiber middleware that protects routes:
// an authentication guard that verifies bearer tokens and resolves the
// caller's identity, an authorization guard that enforces an exact role,
// and a Pipeline that composes them with the request logger in a fixed
// order.
//
// The authorization guard is never useful without the authentication guard
// in front of it; Pipeline.Mount encodes that ordering so applications
// cannot get it wrong.
package guardware
