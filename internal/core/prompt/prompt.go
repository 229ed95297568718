// Package prompt renders the Jyotish reading prompt sent to the language model
// and holds the canned replies used when the model is unreachable
package prompt

import (
	"errors"
	"math/rand/v2"
	"strings"
	"text/template"
)

// Birth is the chart input for a reading
type Birth struct {
	FirstName    string
	LastName     string
	DateOfBirth  string
	TimeOfBirth  string
	PlaceOfBirth string
}

type view struct {
	Birth
	FullName string
	Question string
}

const reading = `You are a highly knowledgeable Vedic Pandit and Astrologer with deep expertise in Jyotish (Vedic Astrology).

Apply traditional Jyotish principles to analyze the birth chart and answer: "{{.Question}}"

Birth Details:
• Name: {{.FullName}}
• Date of Birth: {{.DateOfBirth}}
• Time of Birth: {{.TimeOfBirth}}
• Place of Birth: {{.PlaceOfBirth}}

LANGUAGE INSTRUCTION:
- DETECT the language of the user's question: "{{.Question}}"
- If user asks in Hinglish (mix of Hindi-English), respond in NATURAL Hinglish
- If user asks in Hindi, respond in Hindi with some English terms
- If user asks in English, respond in English
- Use the SAME language style and tone as the user's question

CRITICAL FORMATTING RULES:
1. Keep response SHORT - maximum 3-4 paragraphs total (under 150 words)
2. Start with "Namaste {{.FirstName}} ji!" and brief lagna analysis
3. Use EXACT formatting markers:
   - <green>positive predictions</green>
   - <red>negative predictions</red>
4. Focus on SPECIFIC TIMING (years, periods)
5. NO disclaimers, NO "this is just a glimpse", NO "Jai Shree Krishna" endings
6. Address directly as "you/aap" never third person

EXACT FORMAT TO FOLLOW:
Namaste {{.FirstName}} ji! Brief lagna analysis in 1 line.

<green>Positive prediction with specific timing.</green> Brief planetary logic. <green>Another positive with timing.</green>

<red>Negative aspect with timing.</red> Brief explanation. <red>Another challenge if relevant.</red>

Overall conclusion in 1 line with final <green>positive note.</green>

<green>Summary:</green>
• Brief positive point with timing
• Brief challenge/negative point with timing
• Overall advice/conclusion

INCLUDE:
- Specific years/periods for predictions
- Brief planetary explanations (1 line each)
- Focus on timing and outcomes only
- Keep total response under 150 words`

var readingTmpl = template.Must(template.New("reading").Parse(reading))

// ErrEmptyQuestion is returned when there is nothing to ask
var ErrEmptyQuestion = errors.New("prompt: empty question")

// Build renders the reading prompt for b and question
func Build(b Birth, question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)

	v := view{
		Birth:    b,
		FullName: strings.TrimSpace(b.FirstName + " " + b.LastName),
		Question: q,
	}
	var sb strings.Builder
	if err := readingTmpl.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Fallbacks are served when the model call fails; mixed English and Hinglish
var Fallbacks = []string{
	"Cosmic energies abhi thoda clouded hain, but main sense kar raha hun ki aap kuch important guidance chahte hain. Please apne birth details complete kariye accurate Vedic guidance ke liye.",
	"Celestial channels mein thoda interference aa raha hai. Stars aapki help karna chahte hain though! Please ensure kariye ki aapke birth details complete hain.",
	"Universe mujhse keh raha hai ki main aapki energy ke saath reconnect karun. Kya situation hai jo aapke dil mein hai aur Vedic guidance chahiye?",
	"Mercury thoda cosmic static cause kar raha hai! But main aapki energy clearly sense kar sakta hun. Kaunsi life situation mein Jyotish ki wisdom chahiye?",
	"Planetary alignment shift ho raha hai, but aapka question important hai. Batayiye ki aap kya experience kar rahe hain taki main right Vedic guidance de sakun?",
}

// Picker chooses an index in [0, n)
type Picker func(n int) int

// Fallback returns one of Fallbacks, chosen by pick (uniform random when nil)
func Fallback(pick Picker) string {
	if pick == nil {
		pick = rand.IntN
	}
	i := pick(len(Fallbacks))
	if i < 0 || i >= len(Fallbacks) {
		i = 0
	}
	return Fallbacks[i]
}
