package http

import "github.com/rhuss/healthchat/pkg/api"

// APIKeyURL is where users obtain a Gemini API key.
const APIKeyURL = "https://aistudio.google.com/app/apikey"

const disclaimer = "This AI assistant provides general information only and is not a substitute " +
	"for professional medical advice, diagnosis, or treatment. Always seek the advice of your " +
	"physician or other qualified health provider with any questions you may have regarding a " +
	"medical condition. Never disregard professional medical advice or delay in seeking it " +
	"because of something you have read here."

// DefaultInfo returns the static side-panel content for the given model.
func DefaultInfo(model string) api.Info {
	return api.Info{
		Name:       "Health Assistant",
		Model:      model,
		Disclaimer: disclaimer,
		About: []string{
			"Provides general health information",
			"Explains common symptoms and conditions",
			"Suggests healthy lifestyle practices",
			"Cannot diagnose conditions or prescribe treatment",
		},
		SafetyTips: []string{
			"In an emergency, call your local emergency number immediately",
			"Consult a healthcare professional before changing medication",
			"Do not share personal identifying information",
		},
		Resources: []api.Resource{
			{Name: "World Health Organization", URL: "https://www.who.int"},
			{Name: "Centers for Disease Control and Prevention", URL: "https://www.cdc.gov"},
			{Name: "MedlinePlus", URL: "https://medlineplus.gov"},
		},
		ExamplePrompts: []string{
			"What are common symptoms of the flu?",
			"How much water should I drink each day?",
			"What are some tips for better sleep?",
			"When should I see a doctor about a headache?",
		},
		APIKeyURL: APIKeyURL,
	}
}
