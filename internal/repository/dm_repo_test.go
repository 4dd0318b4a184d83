package repository

import (
	"testing"
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMRepository_GetOrCreateConversation_Canonicalizes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMRepository(db)

	c1, err := repo.GetOrCreateConversation("agent-b", "agent-a")
	require.NoError(t, err)
	assert.Equal(t, "agent-a", c1.Agent1ID)
	assert.Equal(t, "agent-b", c1.Agent2ID)

	c2, err := repo.GetOrCreateConversation("agent-a", "agent-b")
	require.NoError(t, err)
	assert.Equal(t, c1.Agent1ID, c2.Agent1ID)
	assert.Equal(t, c1.Agent2ID, c2.Agent2ID)
}

func TestDMRepository_ListBetween_ExcludesExpired(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMRepository(db)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m1", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "expired", ExpiresAt: &past}))
	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m2", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "visible"}))

	messages, err := repo.ListBetween("agent-a", "agent-b", 50, nil)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "m2", messages[0].ID)
}

func TestDMRepository_FindMessageByID_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMRepository(db)

	_, err := repo.FindMessageByID("missing")
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestDMRepository_MarkReadFrom_AndUnreadCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMRepository(db)

	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m1", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "hi"}))
	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m2", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "again"}))

	count, err := repo.UnreadCountFrom("agent-b", "agent-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkReadFrom("agent-b", "agent-a"))

	count, err = repo.UnreadCountFrom("agent-b", "agent-a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDMRepository_ListExpired(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDMRepository(db)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m1", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "gone", ExpiresAt: &past}))
	require.NoError(t, repo.CreateMessage(&domain.DirectMessage{ID: "m2", FromAgentID: "agent-a", ToAgentID: "agent-b", Content: "later", ExpiresAt: &future}))

	expired, err := repo.ListExpired(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "m1", expired[0].ID)
}
