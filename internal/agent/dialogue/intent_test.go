package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWantsProject(t *testing.T) {
	tests := map[string]bool{
		"I want to build a website":  true,
		"mujhe website chahiye":      true,
		"Can you CREATE APP for me?": true,
		"yes details":                true,
		"what are your services":     false,
		"how much does a logo cost":  false,
		"":                           false,
	}
	for msg, want := range tests {
		assert.Equal(t, want, WantsProject(msg), msg)
	}
}

func TestIsGreeting(t *testing.T) {
	tests := map[string]bool{
		"hello":                           true,
		"Hello there!":                    true,
		"Good morning":                    true,
		"hi Damsole":                      true,
		"hey, what's the price of a logo": true,
		"hello how are you":               true,
		"Namaste, I have a question":      true,
		"this is history":                 false,
		"this is it":                      false,
		"which services":                  false,
		"":                                false,
		"!!!":                             false,
	}
	for msg, want := range tests {
		assert.Equal(t, want, IsGreeting(msg), msg)
	}
}

func TestProjectIntentAlsoGreeting(t *testing.T) {
	msg := "hi, i want to create app"
	assert.True(t, WantsProject(msg))
	assert.True(t, IsGreeting(msg))
	assert.True(t, IsGreeting("hi"))
}
