// Package mcp exposes the health assistant as a Model Context Protocol
// server. Each MCP session owns one engine; tool calls on a session are
// serialized. The server runs over stdio or, through NewHTTPHandler, over
// streamable HTTP.
package mcp
