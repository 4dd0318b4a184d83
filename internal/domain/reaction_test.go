package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReaction_ByName(t *testing.T) {
	emoji, ok := NormalizeReaction("like")
	assert.True(t, ok)
	assert.Equal(t, "👍", emoji)
}

func TestNormalizeReaction_ByEmoji(t *testing.T) {
	emoji, ok := NormalizeReaction("❤️")
	assert.True(t, ok)
	assert.Equal(t, "❤️", emoji)
}

func TestNormalizeReaction_Rejected(t *testing.T) {
	_, ok := NormalizeReaction("laugh")
	assert.False(t, ok)

	_, ok = NormalizeReaction("🎉")
	assert.False(t, ok)

	_, ok = NormalizeReaction("")
	assert.False(t, ok)
}

func TestNormalizeReaction_AllFourNames(t *testing.T) {
	for name, want := range map[ReactionName]string{
		ReactionLike:  "👍",
		ReactionLove:  "❤️",
		ReactionAngry: "😠",
		ReactionSad:   "😢",
	} {
		emoji, ok := NormalizeReaction(string(name))
		assert.True(t, ok)
		assert.Equal(t, want, emoji)
	}
}
