package migration

import (
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every domain table and seeds the system
// badge catalog if it is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Agent{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.GroupPermissions{},
		&domain.PinnedMessage{},
		&domain.Message{},
		&domain.DirectMessage{},
		&domain.DMConversation{},
		&domain.AgentBlock{},
		&domain.Reaction{},
		&domain.Badge{},
		&domain.AgentBadge{},
	); err != nil {
		return err
	}

	return repository.NewBadgeRepository(db).SeedSystemBadges()
}
