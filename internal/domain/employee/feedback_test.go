package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedback_MissingFields(t *testing.T) {
	complete := Feedback{
		Recipient: "Дмитрий",
		Situation: "на ретро",
		Behavior:  "взял на себя сложный инцидент",
		Impact:    "команда закрыла спринт вовремя",
	}
	assert.Empty(t, complete.MissingFields())
	assert.True(t, complete.IsValid())

	empty := Feedback{}
	assert.Equal(t, []string{"recipient", "situation", "behavior", "impact"}, empty.MissingFields())
	assert.False(t, empty.IsValid())

	whitespace := complete
	whitespace.Behavior = "   "
	assert.Equal(t, []string{"behavior"}, whitespace.MissingFields())
}
