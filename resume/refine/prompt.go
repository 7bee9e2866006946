package refine

// DefaultPromptMaxChars caps the free-text tailoring prompt.
const DefaultPromptMaxChars = 1000

// Presets are the quick prompts offered next to the editor.
var Presets = []string{
	"Target role: Senior Backend Engineer; focus on Python, Django, MySQL, CI/CD.",
	"Emphasize security clearances, compliance, and government project work.",
	"Tone: concise, results-driven; highlight performance, scale, and reliability.",
	"Tailor to GovStar; highlight PWA experience and search implementation ownership.",
}

// ClipPrompt truncates s to at most max runes. A non-positive max uses the default.
func ClipPrompt(s string, max int) string {
	if max <= 0 {
		max = DefaultPromptMaxChars
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Remaining reports how many runes may still be typed.
func Remaining(s string, max int) int {
	if max <= 0 {
		max = DefaultPromptMaxChars
	}
	left := max - len([]rune(s))
	if left < 0 {
		return 0
	}
	return left
}
