package repository

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRepository_CreateAndExists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)

	ok, err := repo.Exists("agent-a", "agent-b")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Create("agent-a", "agent-b")
	require.NoError(t, err)

	ok, err = repo.Exists("agent-a", "agent-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlockRepository_Delete_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)

	err := repo.Delete("agent-a", "agent-b")
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestBlockRepository_Delete_RemovesOnlyMatchingPair(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)

	_, err := repo.Create("agent-a", "agent-b")
	require.NoError(t, err)
	_, err = repo.Create("agent-a", "agent-c")
	require.NoError(t, err)

	require.NoError(t, repo.Delete("agent-a", "agent-b"))

	ok, err := repo.Exists("agent-a", "agent-b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists("agent-a", "agent-c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlockRepository_GetBlockedAgentIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)

	_, err := repo.Create("agent-a", "agent-b")
	require.NoError(t, err)
	_, err = repo.Create("agent-a", "agent-c")
	require.NoError(t, err)

	ids, err := repo.GetBlockedAgentIDs("agent-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"agent-b", "agent-c"}, ids)
}

func TestBlockRepository_FindByBlocker(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)

	_, err := repo.Create("agent-a", "agent-b")
	require.NoError(t, err)

	blocks, err := repo.FindByBlocker("agent-a")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "agent-b", blocks[0].BlockedID)
}
