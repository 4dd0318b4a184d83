package repository

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_Add_RejectsDuplicate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)

	require.NoError(t, repo.Add("m1", domain.MessageKindGroup, "agent-a", "👍"))
	err := repo.Add("m1", domain.MessageKindGroup, "agent-a", "👍")
	assert.Equal(t, common.KindConflict, common.AsError(err).Kind)
}

func TestReactionRepository_Remove_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)

	err := repo.Remove("m1", domain.MessageKindGroup, "agent-a", "👍")
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestReactionRepository_ListByMessages_AggregatesPerEmoji(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)

	require.NoError(t, repo.Add("m1", domain.MessageKindGroup, "agent-a", "👍"))
	require.NoError(t, repo.Add("m1", domain.MessageKindGroup, "agent-b", "👍"))
	require.NoError(t, repo.Add("m1", domain.MessageKindGroup, "agent-a", "❤️"))
	require.NoError(t, repo.Add("m2", domain.MessageKindDM, "agent-a", "😢"))

	got, err := repo.ListByMessages([]string{"m1", "m2"}, domain.MessageKindGroup)
	require.NoError(t, err)
	require.Contains(t, got, "m1")
	assert.NotContains(t, got, "m2")

	byEmoji := map[string]domain.ReactionAggregate{}
	for _, agg := range got["m1"] {
		byEmoji[agg.Emoji] = agg
	}
	assert.Equal(t, 2, byEmoji["👍"].Count)
	assert.Equal(t, 1, byEmoji["❤️"].Count)
}

func TestReactionRepository_Exists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)

	ok, err := repo.Exists("m1", domain.MessageKindGroup, "agent-a", "👍")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add("m1", domain.MessageKindGroup, "agent-a", "👍"))
	ok, err = repo.Exists("m1", domain.MessageKindGroup, "agent-a", "👍")
	require.NoError(t, err)
	assert.True(t, ok)
}
