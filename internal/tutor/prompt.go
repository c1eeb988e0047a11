// AngelaMos | 2026
// prompt.go

package tutor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelamos/tecai-kids/internal/agetier"
)

const (
	suggestionsMarker = "SUGGESTIONS:"
	maxSuggestions    = 3
	maxCodeContext    = 4000
)

var tierVoice = map[agetier.Level]string{
	agetier.LittleLearners: "Use very short sentences and simple words a five year old knows. " +
		"Be playful and encouraging, and use a friendly emoji now and then.",
	agetier.YoungExplorers: "Use simple language and everyday examples. " +
		"Explain one step at a time and celebrate effort.",
	agetier.SmartKids: "Explain concepts clearly with examples. " +
		"Encourage the learner to reason through the problem before giving the answer.",
	agetier.TechTeens: "Speak to a teenager learning technology. " +
		"Use correct technical terms, show short code where it helps, and point out good practice.",
	agetier.FutureLeaders: "Speak to a young adult preparing for university and a career. " +
		"Be precise, discuss trade-offs, and connect ideas to real-world practice.",
}

var contextFocus = map[ContextType]string{
	ContextGeneral: "Help with any learning question.",
	ContextLesson:  "The learner is working through a lesson. Stay on the lesson topic.",
	ContextCoding:  "The learner needs help with code. Guide them to find bugs themselves before fixing them.",
	ContextQuiz:    "The learner is studying for a quiz. Teach the idea; never just give away quiz answers.",
}

func systemPrompt(level agetier.Level, name string, ct ContextType, codeContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are TecAI, a friendly tutor for %s, a learner in the %s tier (ages %s).\n",
		name, level.Name(), level)
	b.WriteString(tierVoice[level])
	b.WriteString("\n")
	b.WriteString(contextFocus[ct])
	b.WriteString("\nKeep answers safe and age appropriate. Never ask for personal information.\n")
	fmt.Fprintf(&b, "After your answer, write a line %q followed by up to %d short follow-up "+
		"questions the learner could ask next, one per line starting with \"- \".\n",
		suggestionsMarker, maxSuggestions)

	if codeContext != "" {
		if len(codeContext) > maxCodeContext {
			codeContext = codeContext[:maxCodeContext]
		}
		b.WriteString("\nThe learner's code:\n```\n")
		b.WriteString(codeContext)
		b.WriteString("\n```\n")
	}

	return b.String()
}

// parseReply splits the model output into the answer shown to the learner
// and the follow-up suggestions listed after the marker.
func parseReply(raw string) (string, []string) {
	answer, tail, found := strings.Cut(raw, suggestionsMarker)
	answer = strings.TrimSpace(answer)
	if !found {
		return answer, nil
	}

	suggestions := make([]string, 0, maxSuggestions)
	for line := range strings.Lines(tail) {
		line = trimBullet(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return answer, suggestions
}

func trimBullet(s string) string {
	s = strings.TrimLeft(s, "-*• ")
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 {
		if _, err := strconv.Atoi(s[:i]); err == nil {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	return s
}

var defaultSuggestions = map[ContextType][]string{
	ContextGeneral: {"Can you explain that another way?", "Can you give me an example?"},
	ContextLesson:  {"What is the most important idea in this lesson?", "Can you quiz me on this?"},
	ContextCoding:  {"How can I test this code?", "What does this error mean?"},
	ContextQuiz:    {"Can you give me a practice question?", "Why is that the right answer?"},
}

func suggestionsOrDefault(parsed []string, ct ContextType) []string {
	if len(parsed) > 0 {
		return parsed
	}
	return append([]string(nil), defaultSuggestions[ct]...)
}

var resourcesByContext = map[ContextType][]Resource{
	ContextGeneral: {
		{Title: "Khan Academy", URL: "https://www.khanacademy.org"},
	},
	ContextLesson: {
		{Title: "Khan Academy", URL: "https://www.khanacademy.org"},
		{Title: "BBC Bitesize", URL: "https://www.bbc.co.uk/bitesize"},
	},
	ContextCoding: {
		{Title: "MDN Web Docs", URL: "https://developer.mozilla.org"},
		{Title: "Scratch", URL: "https://scratch.mit.edu"},
	},
	ContextQuiz: {
		{Title: "Khan Academy practice", URL: "https://www.khanacademy.org"},
	},
}

// helpfulResources swaps Scratch for a text language reference once the
// learner is a teen.
func helpfulResources(level agetier.Level, ct ContextType) []Resource {
	out := append([]Resource(nil), resourcesByContext[ct]...)
	if ct == ContextCoding && level.IsTeen() {
		out[1] = Resource{Title: "Python Tutorial", URL: "https://docs.python.org/3/tutorial/"}
	}
	return out
}
