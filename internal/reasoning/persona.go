package reasoning

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

// Persona selects the system framing of an answer; the grounding is identical for all.
type Persona string

const (
	Neutral Persona = "neutral"
	Agent   Persona = "agent"
)

const agentName = "Alex Morgan"

func ParsePersona(s string) (Persona, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Neutral):
		return Neutral, nil
	case string(Agent), "alex":
		return Agent, nil
	default:
		return "", fmt.Errorf("%w: unknown persona %q", common.ErrInvalidInput, s)
	}
}

func (p Persona) systemPrompt() string {
	switch p {
	case Agent:
		return "You are " + agentName + ", a practical New York real estate agent. Be clear and concise, " +
			"and speak from day-to-day experience with leases and sales."
	default:
		return "You are a helpful assistant explaining real estate documents in plain language."
	}
}

// DisplayName is how the persona is labelled in transcripts.
func (p Persona) DisplayName() string {
	if p == Agent {
		return agentName
	}
	return "Assistant"
}
