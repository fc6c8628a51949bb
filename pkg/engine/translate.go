package engine

import (
	"github.com/rhuss/healthchat/pkg/api"
	"github.com/rhuss/healthchat/pkg/provider"
)

// generationConfig is attached to every request. It is not tunable.
var generationConfig = provider.GenerationConfig{
	Temperature:     0.3,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 2048,
}

// safetyCategories are blocked at BLOCK_MEDIUM_AND_ABOVE on every request.
var safetyCategories = []string{
	provider.HarmCategoryDangerousContent,
	provider.HarmCategoryHarassment,
	provider.HarmCategoryHateSpeech,
	provider.HarmCategorySexuallyExplicit,
}

// buildRequest assembles the provider envelope: the preamble turn, every
// history message in order, then the new user text.
func buildRequest(msgs []api.Message, text, apiKey string) *provider.Request {
	contents := make([]provider.Content, 0, len(msgs)+2)
	contents = append(contents, textContent(provider.RoleUser, preambleTurn()))
	for _, m := range msgs {
		contents = append(contents, textContent(providerRole(m.Role), m.Content))
	}
	contents = append(contents, textContent(provider.RoleUser, text))

	safety := make([]provider.SafetySetting, len(safetyCategories))
	for i, c := range safetyCategories {
		safety[i] = provider.SafetySetting{Category: c, Threshold: provider.BlockMediumAndAbove}
	}

	return &provider.Request{
		APIKey:           apiKey,
		Contents:         contents,
		GenerationConfig: generationConfig,
		SafetySettings:   safety,
	}
}

func textContent(role, text string) provider.Content {
	return provider.Content{
		Parts: []provider.Part{{Text: text}},
		Role:  role,
	}
}

// providerRole maps a conversation role to the protocol role.
func providerRole(r api.Role) string {
	if r == api.RoleAssistant {
		return provider.RoleModel
	}
	return provider.RoleUser
}
