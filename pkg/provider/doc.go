// Package provider defines the generateContent wire contract of the remote
// completion service and the interface the engine uses to call it.
//
// The request envelope ([Request]) and response body ([Response]) mirror the
// Gemini REST format. [ParseCandidate] turns a decoded response into a
// tagged result so that callers handle a missing candidate and a candidate
// without text as distinct, explicit cases.
package provider
