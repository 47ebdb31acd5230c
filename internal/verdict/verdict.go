// Package verdict turns the service's classification label into what the screen shows.
package verdict

import "strings"

// Tone selects the colour a verdict is rendered in.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneFact
	ToneMyth
	ToneScam
)

// Step is one follow-up suggestion shown under a verdict.
type Step struct {
	Title       string
	Description string
}

// Label normalises a verdict for display.
func Label(verdict string) string {
	return strings.ToUpper(strings.TrimSpace(verdict))
}

// ToneOf maps a verdict onto its colour family.
func ToneOf(verdict string) Tone {
	switch Label(verdict) {
	case "FACT":
		return ToneFact
	case "MYTH":
		return ToneMyth
	case "SCAM":
		return ToneScam
	default:
		return ToneNeutral
	}
}

// Guidance returns follow-up steps for a verdict. Unknown labels get none.
func Guidance(verdict string) []Step {
	switch ToneOf(verdict) {
	case ToneFact:
		return []Step{
			{Title: "Share with context", Description: "Link the primary source when you pass this on, not a screenshot of it."},
		}
	case ToneMyth:
		return []Step{
			{Title: "Check the origin", Description: "Find where the claim first appeared; myths usually trace back to a misquoted or outdated source."},
			{Title: "Reply with the correction", Description: "If someone sent this to you, answer with the explanation instead of forwarding the original."},
		}
	case ToneScam:
		return []Step{
			{Title: "Do not engage", Description: "Do not click links, call numbers, or send money or codes mentioned in the message."},
			{Title: "Report it", Description: "Report the sender to your bank or the platform it arrived on, then delete the message."},
			{Title: "Warn others", Description: "Tell anyone else who received it that it has been flagged as a scam."},
		}
	default:
		return nil
	}
}
