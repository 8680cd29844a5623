package i18n

// loadEnglishMessages loads all English translations.
func loadEnglishMessages() {
	messages[LangEN] = map[string]string{
		// Onboarding dialogue
		"onboarding.greeting":     "Dumela! I am Lebo, your Brastorne assistant. Before we begin, may I have your name?",
		"onboarding.ask_email":    "Thanks, %s! What email address can we reach you at?",
		"onboarding.ask_interest": "Which of our services are you most interested in: mAgri, Mpotsa, or Vuka?",
		"onboarding.complete":     "Thank you, %s! How can I help you with mAgri, Mpotsa, or Vuka today?",

		// Chat
		"chat.fallback": "I'm sorry, I am having trouble connecting. Please call our office at +267 390 1234 or try again later.",

		// CLI
		"cli.welcome": "Lebo, the Brastorne assistant. Type your question, Ctrl+D to quit.",
		"cli.goodbye": "Goodbye!",
	}
}
