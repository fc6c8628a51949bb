// Package gemini implements provider.Provider against the Gemini
// generateContent REST endpoint. The API key is passed as the "key" query
// parameter on every call. Error payloads are parsed for a descriptive
// message so callers can show the provider's own explanation.
package gemini
