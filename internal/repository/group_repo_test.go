package repository

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_CreateGroupWithAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)

	group := &domain.Group{ID: "g1", Name: "General", Slug: "general", CreatedByID: "agent-a"}
	saved, member, err := repo.CreateGroupWithAdmin(group)
	require.NoError(t, err)
	assert.Equal(t, "g1", saved.ID)
	assert.Equal(t, domain.RoleAdmin, member.Role)

	found, err := repo.FindMember("g1", "agent-a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.RoleAdmin, found.Role)
}

func TestGroupRepository_CreateGroupWithAdmin_DuplicateSlugConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)

	_, _, err := repo.CreateGroupWithAdmin(&domain.Group{ID: "g1", Slug: "general", CreatedByID: "agent-a"})
	require.NoError(t, err)

	_, _, err = repo.CreateGroupWithAdmin(&domain.Group{ID: "g2", Slug: "general", CreatedByID: "agent-b"})
	require.Error(t, err)
	assert.Equal(t, common.KindConflict, common.AsError(err).Kind)

	// the failed transaction must not have left a stray admin membership
	found, err := repo.FindMember("g2", "agent-b")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGroupRepository_DeleteGroup_CascadesAndReports404(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)

	group, _, err := repo.CreateGroupWithAdmin(&domain.Group{ID: "g1", Slug: "general", CreatedByID: "agent-a"})
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(group.ID, "agent-b", domain.RoleMember))

	msgRepo := NewMessageRepository(db)
	require.NoError(t, msgRepo.Create(&domain.Message{ID: "m1", GroupID: group.ID, AgentID: "agent-a", Content: "hi"}))
	require.NoError(t, repo.Pin(group.ID, "m1"))

	reactionRepo := NewReactionRepository(db)
	require.NoError(t, reactionRepo.Add("m1", domain.MessageKindGroup, "agent-b", "👍"))

	require.NoError(t, repo.DeleteGroup(group.ID))

	_, err = repo.FindByID(group.ID)
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)

	members, err := repo.ListMembers(group.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = msgRepo.FindByID("m1")
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)

	err = repo.DeleteGroup(group.ID)
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestGroupRepository_LeaveInvariant_CountAdmins(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)

	group, _, err := repo.CreateGroupWithAdmin(&domain.Group{ID: "g1", Slug: "general", CreatedByID: "agent-a"})
	require.NoError(t, err)

	count, err := repo.CountAdmins(group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.AddMember(group.ID, "agent-b", domain.RoleAdmin))
	count, err = repo.CountAdmins(group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGroupRepository_SetMemberRole_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)
	_, _, err := repo.CreateGroupWithAdmin(&domain.Group{ID: "g1", Slug: "general", CreatedByID: "agent-a"})
	require.NoError(t, err)

	err = repo.SetMemberRole("g1", "agent-ghost", domain.RoleModerator)
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestGroupRepository_RoleCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)
	group, _, err := repo.CreateGroupWithAdmin(&domain.Group{ID: "g1", Slug: "general", CreatedByID: "agent-a"})
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(group.ID, "agent-b", domain.RoleMember))
	require.NoError(t, repo.AddMember(group.ID, "agent-c", domain.RoleModerator))

	counts, err := repo.RoleCounts(group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.RoleAdmin])
	assert.Equal(t, 1, counts[domain.RoleModerator])
	assert.Equal(t, 1, counts[domain.RoleMember])
}
