package i18n

// loadSetswanaMessages loads all Setswana translations.
func loadSetswanaMessages() {
	messages[LangTN] = map[string]string{
		// Onboarding dialogue
		"onboarding.greeting":     "Dumela! Ke nna Lebo, mothusi wa gago wa Brastorne. Pele re simolola, leina la gago ke mang?",
		"onboarding.ask_email":    "Ke a leboga, %s! Re ka go kwalela kwa aterese efe ya email?",
		"onboarding.ask_interest": "O kgatlhegela tirelo efe thata: mAgri, Mpotsa kgotsa Vuka?",
		"onboarding.complete":     "Ke a leboga, %s! Nka go thusa jang ka mAgri, Mpotsa kgotsa Vuka gompieno?",

		// Chat
		"chat.fallback": "Ke maswabi, go na le mathata a thulaganyo. Tswee-tswee leletsa ofisi ya rona kwa +267 390 1234 kgotsa o leke gape morago.",

		// CLI
		"cli.welcome": "Lebo, mothusi wa Brastorne. Kwala potso ya gago, Ctrl+D go tswa.",
		"cli.goodbye": "Tsamaya sentle!",
	}
}
