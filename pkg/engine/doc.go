// Package engine implements the conversation orchestrator.
//
// An Engine owns one provider credential, a bounded rolling history and
// the request/response lifecycle for a single conversation. Every call
// to the provider carries the fixed instruction preamble, the retained
// history and the new user turn, with fixed sampling and safety
// settings.
//
// Engines are not safe for concurrent use. Adapters that may be called
// concurrently (HTTP sessions, the MCP server) serialize access to each
// instance themselves.
//
// Failures are typed (*Error with an ErrorKind). SendMessage converts
// them into a user-facing string and never fails.
package engine
