package transport

import (
	"context"
	"strings"

	"github.com/brastorne/lebo/internal/chat"
)

// mockRule maps trigger substrings to a canned reply. The first rule with
// any matching keyword wins.
type mockRule struct {
	keywords []string
	reply    string
}

// mockRules reproduces the production demo answers. Order matters.
var mockRules = []mockRule{
	{
		keywords: []string{"magri"},
		reply:    "mAgri (*157#) is our flagship agricultural platform. It connects smallholder farmers to markets and real-time advice. Farmers have seen up to a 250% increase in yields using our USSD service!",
	},
	{
		keywords: []string{"mpotsa"},
		reply:    "Mpotsa (*152#) is our SMS-based Q&A service, often called 'Google for feature phones.' It provides localized answers on health, jobs, and more to those without internet.",
	},
	{
		keywords: []string{"vuka"},
		reply:    "Vuka (*156#) is a low-bandwidth social network that works without data. It allows communities to stay connected and build digital profiles on basic phones.",
	},
	{
		keywords: []string{"who are you", "about brastorne", "what is brastorne"},
		reply:    "Brastorne is a Botswana-based impact tech company founded in 2013. We connect the 'Missing Middle' in Africa: those with phones but no internet. We currently serve over 5.3 million people across 6 countries.",
	},
	{
		keywords: []string{"leader", "ceo", "team", "founder"},
		reply:    "Brastorne was co-founded by Martin Stimela (CEO) and Naledi Magowe (CGO/CMO). Our team of 28 is dedicated to scaling digital equity across the African continent.",
	},
	{
		keywords: []string{"mission", "vision", "value"},
		reply:    "Our mission is to connect the 760M Africans lacking digital access. Our vision is to 'Connect the Unconnected to the World,' driven by values like Impact, Boldness, and Innovation.",
	},
	{
		keywords: []string{"award", "win", "mit", "google"},
		reply:    "We've won several global awards, including the MIT Solver (2021), Google Black Founders Fund (2022), and the AYuTe Africa Challenge (2022). Recently, we received the SAIS Female Founder Award in 2025!",
	},
	{
		keywords: []string{"country", "where", "botswana"},
		reply:    "We are headquartered in Gaborone, Botswana, and also operate in the DRC, Cameroon, Guinea, and Zambia. We're soon expanding to countries like Mali and Cote d'Ivoire!",
	},
	{
		keywords: []string{"setswana", "dumela"},
		reply:    "Dumela! Re kgetha go go thusa ka Setswana. O ka botsa ka mAgri, Mpotsa, kgotsa Vuka mme re tla go araba ka botlalo.",
	},
}

// mockDefaultReply answers anything no rule matches.
const mockDefaultReply = "I'm Lebo, the Brastorne AI. I can tell you about our services (mAgri, Mpotsa, Vuka), our leadership team, our mission to connect the unconnected, or our recent global awards. What would you like to know?"

// Mock is the local development strategy: a deterministic keyword rule
// table instead of the real pipeline. Identical queries always produce
// identical replies.
type Mock struct{}

// NewMock creates the mock strategy.
func NewMock() *Mock {
	return &Mock{}
}

// Name implements Strategy.
func (*Mock) Name() string { return "mock" }

// Reply implements Strategy. It never fails.
func (*Mock) Reply(_ context.Context, query string, _ []chat.Message) (string, error) {
	lower := strings.ToLower(query)
	for _, rule := range mockRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.reply, nil
			}
		}
	}
	return mockDefaultReply, nil
}
