package dialogue

import (
	"strings"
	"unicode"
)

// projectKeywords signal that the visitor wants something built. English and
// Romanized Hindi phrasings are both listed.
var projectKeywords = []string{
	"website banana", "website banani", "website chahiye", "website banwana",
	"app banana", "app banani", "app chahiye", "app banwana",
	"logo banana", "logo banani", "logo chahiye",
	"software banana", "software banani", "software chahiye",
	"i want to make", "i want to create", "i want to build",
	"i need website", "i need app", "i need logo", "i need software",
	"website create", "app create", "logo create",
	"make website", "create website", "build website",
	"make app", "create app", "build app",
	"project chahiye", "project banana",
	"details de deta", "details de deti", "details de sakta", "details de sakti",
	"haan details", "yes details", "ok details",
	"form fill", "fill form", "form bhar",
}

// greetingPhrases match the whole message.
var greetingPhrases = []string{
	"hi", "hii", "hiii", "hello", "helo", "hey", "heya", "hola", "namaste", "namaskar",
	"good morning", "good afternoon", "good evening", "greetings", "hi there", "hello there", "hey there",
}

// greetingWords match any word of the message.
var greetingWords = map[string]struct{}{
	"hi": {}, "hii": {}, "hello": {}, "hey": {}, "namaste": {}, "namaskar": {}, "greetings": {},
}

// WantsProject reports whether text asks to start a project.
func WantsProject(text string) bool {
	msg := strings.ToLower(text)
	for _, kw := range projectKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// IsGreeting reports whether text is a greeting: the whole message is a
// greeting phrase, or one of its words is a greeting word.
func IsGreeting(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return false
	}
	joined := strings.Join(words, " ")
	for _, p := range greetingPhrases {
		if joined == p {
			return true
		}
	}
	for _, w := range words {
		if _, ok := greetingWords[w]; ok {
			return true
		}
	}
	return false
}
