package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_KnownKey(t *testing.T) {
	got := T(LangEN, "onboarding.greeting")
	assert.Contains(t, got, "Lebo")

	got = T(LangTN, "onboarding.greeting")
	assert.Contains(t, got, "Dumela")
}

func TestT_FallsBackToEnglish(t *testing.T) {
	// An unsupported language should fall back to the English catalog.
	got := T("fr", "chat.fallback")
	assert.Equal(t, messages[LangEN]["chat.fallback"], got)
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no.such.key", T(LangEN, "no.such.key"))
}

func TestBilingual_JoinsBothLanguages(t *testing.T) {
	got := Bilingual("onboarding.ask_email", "Naledi")
	assert.Contains(t, got, "Thanks, Naledi!")
	assert.Contains(t, got, "Ke a leboga, Naledi!")
	assert.Contains(t, got, " / ")
}

func TestBilingual_FallbackContainsOfficeNumber(t *testing.T) {
	got := Bilingual("chat.fallback")
	assert.Contains(t, got, "+267 390 1234")
	assert.Contains(t, got, "Ke maswabi")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english question", "What is mAgri?", LangEN},
		{"setswana greeting", "Dumela, o kae?", LangTN},
		{"setswana request", "Ke batla thuso ka mAgri kgotsa Vuka", LangTN},
		{"mixed case marker", "DUMELA Lebo", LangTN},
		{"empty input", "", LangEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}
