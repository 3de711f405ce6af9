package modules

import (
	"context"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
)

// Chatbot detects live-chat and chatbot widgets. Absence is informational,
// not a fault, so this module never scores below 70.
type Chatbot struct{}

func (Chatbot) Name() string { return "chatbot" }

var chatbotSignatures = []struct {
	name       string
	signatures []string
}{
	{"Intercom", []string{"widget.intercom.io", "intercomSettings"}},
	{"Drift", []string{"js.driftt.com", "drift.load"}},
	{"Crisp", []string{"client.crisp.chat", "$crisp"}},
	{"Zendesk", []string{"static.zdassets.com", "zEmbed", "zE("}},
	{"Tawk.to", []string{"embed.tawk.to", "Tawk_API"}},
	{"HubSpot Chat", []string{"js.hs-scripts.com", "HubSpotConversations"}},
	{"LiveChat", []string{"cdn.livechatinc.com", "__lc.license"}},
	{"Olark", []string{"static.olark.com", "olark.identify"}},
}

func (Chatbot) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}

	details := audit.ChatbotDetails{}
	var issues []audit.Issue

	for _, provider := range chatbotSignatures {
		for _, sig := range provider.signatures {
			if strings.Contains(page.HTML, sig) {
				details.Providers = append(details.Providers, provider.name)
				break
			}
		}
	}

	score := 100
	if len(details.Providers) == 0 {
		issues = append(issues, audit.Issue{
			Description: "No live chat or chatbot widget detected",
			Category:    "chatbot",
		})
		score = 70
	} else if len(details.Providers) > 1 {
		issues = append(issues, audit.Issue{
			Description: "Multiple chat widgets detected; they compete for the same screen corner",
			Category:    "chatbot",
		})
		score = 85
	}

	return audit.ModuleResult{
		Score:   score,
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
