package engine

import "fmt"

// FallbackText replaces a reply whose first candidate carried no text.
const FallbackText = "Sorry, I couldn't generate a response."

// FailSoftText renders a failure as the assistant's reply.
func FailSoftText(err error) string {
	if err == nil {
		return "I'm having trouble connecting to my knowledge base right now. Please try again in a moment."
	}
	return fmt.Sprintf("I'm having trouble connecting to my knowledge base right now: %s. Please check your API key and try again.", err.Error())
}
