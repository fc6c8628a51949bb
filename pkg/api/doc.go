// Package api defines the wire types shared by the healthchat surfaces.
//
// It contains the conversation [Message] model, the JSON request and
// response bodies of the HTTP API, structured [APIError] values, and ID
// generation. The package performs no I/O.
//
// Core types:
//   - [Message]: one immutable turn of a conversation (user or assistant)
//   - [SendMessageRequest] / [SendMessageResponse]: one chat exchange
//   - [APIError]: structured error with type, param, and message
//   - [Info]: static assistant information shown next to the chat
package api
