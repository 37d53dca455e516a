package messaging

import "fmt"

// SystemPrompt sets the tone for every outreach draft
const SystemPrompt = "You are an expert at writing personalized, friendly Instagram DM messages. Keep messages under 150 characters, casual, and engaging."

// InitialPrompt asks for a campaign-wide opener
func InitialPrompt(audience string) string {
	return fmt.Sprintf("Generate a personalized Instagram DM for someone interested in: %s", audience)
}

// PersonalizedPrompt asks for an opener addressed to one lead
func PersonalizedPrompt(audience, name string) string {
	return fmt.Sprintf("Generate a personalized Instagram DM for %s who is interested in: %s", name, audience)
}

// InitialFallback is used when the generation service is unavailable
func InitialFallback(audience string) string {
	return fmt.Sprintf("Hi! I noticed you're interested in %s. I'd love to connect and share some valuable insights with you!", audience)
}

// PersonalizedFallback is used when the generation service is unavailable
func PersonalizedFallback(audience, name string) string {
	return fmt.Sprintf("Hi %s! I noticed you're interested in %s. Let's connect!", name, audience)
}

// Used when the service answers with blank content.
const blankInitial = "Hi! I'd love to connect with you!"

func blankPersonalized(name string) string {
	return fmt.Sprintf("Hi %s! Let's connect!", name)
}
