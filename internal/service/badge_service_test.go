package service

import (
	"testing"
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBadgeService_Award_RejectsUnknownSlug(t *testing.T) {
	badges := &mockBadgeRepo{}
	svc := NewBadgeService(badges)
	badges.On("FindBySlug", "nope").Return(nil, common.NotFound("badge not found"))

	err := svc.Award("agent-a", "nope", "system", nil)
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
	badges.AssertExpectations(t)
}

func TestBadgeService_Award_Success(t *testing.T) {
	badges := &mockBadgeRepo{}
	svc := NewBadgeService(badges)
	badges.On("FindBySlug", "verified").Return(&domain.Badge{Slug: "verified"}, nil)
	badges.On("Award", "agent-a", "verified", "system", (*time.Time)(nil)).Return(nil)

	err := svc.Award("agent-a", "verified", "system", nil)
	assert.NoError(t, err)
	badges.AssertExpectations(t)
}
