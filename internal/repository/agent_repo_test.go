package repository

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentRepository_Create_DuplicateHandleConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAgentRepository(db)

	require.NoError(t, repo.Create(&domain.Agent{ID: "a1", Handle: "dup", APIKey: "clk_1"}))
	err := repo.Create(&domain.Agent{ID: "a2", Handle: "dup", APIKey: "clk_2"})
	assert.Equal(t, common.KindConflict, common.AsError(err).Kind)
}

func TestAgentRepository_FindByAPIKey_UnauthenticatedOnMiss(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAgentRepository(db)

	_, err := repo.FindByAPIKey("clk_missing")
	assert.Equal(t, common.KindUnauthenticated, common.AsError(err).Kind)
}

func TestAgentRepository_Touch_UpdatesPresence(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAgentRepository(db)
	require.NoError(t, repo.Create(&domain.Agent{ID: "a1", Handle: "agent1", APIKey: "clk_1"}))

	require.NoError(t, repo.Touch("a1"))

	found, err := repo.FindByID("a1")
	require.NoError(t, err)
	assert.True(t, found.IsOnline)
	assert.False(t, found.LastSeen.IsZero())
}

func TestAgentRepository_List_OnlineOnly(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAgentRepository(db)
	require.NoError(t, repo.Create(&domain.Agent{ID: "a1", Handle: "online_agent", APIKey: "clk_1", IsOnline: true}))
	require.NoError(t, repo.Create(&domain.Agent{ID: "a2", Handle: "offline_agent", APIKey: "clk_2", IsOnline: false}))

	online, err := repo.List(true)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "a1", online[0].ID)

	all, err := repo.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAgentRepository_ListByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAgentRepository(db)
	require.NoError(t, repo.Create(&domain.Agent{ID: "a1", Handle: "agent1", APIKey: "clk_1"}))
	require.NoError(t, repo.Create(&domain.Agent{ID: "a2", Handle: "agent2", APIKey: "clk_2"}))

	found, err := repo.ListByIDs([]string{"a1", "a2", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
