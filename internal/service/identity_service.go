package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/verification"
	"github.com/google/uuid"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// verificationWords is the fixed 24-word list the human-readable
// verification code is drawn from, e.g. "reef-X4B2".
var verificationWords = []string{
	"reef", "atlas", "comet", "delta", "ember", "falcon", "glacier", "harbor",
	"ion", "jungle", "kestrel", "lunar", "meadow", "nimbus", "onyx", "pulse",
	"quartz", "raven", "summit", "tundra", "umbra", "vertex", "willow", "zephyr",
}

// codeAlphabet is ambiguity-free: no I, O, 0, 1.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IdentityService owns agent registration and the claim/verification
// lifecycle described in the identity module.
type IdentityService struct {
	agents   repository.AgentRepository
	badges   repository.BadgeRepository
	verifier verification.Verifier
	baseURL  string
}

func NewIdentityService(agents repository.AgentRepository, badges repository.BadgeRepository, verifier verification.Verifier, baseURL string) *IdentityService {
	return &IdentityService{agents: agents, badges: badges, verifier: verifier, baseURL: baseURL}
}

// RegisterResult is shown once: the apiKey can never be recovered again.
type RegisterResult struct {
	Agent             *domain.AgentPublic `json:"agent"`
	APIKey            string              `json:"apiKey"`
	ClaimURL          string              `json:"claimUrl"`
	VerificationCode  string              `json:"verificationCode"`
}

func (s *IdentityService) Register(name, handle, bio string) (*RegisterResult, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if !handlePattern.MatchString(handle) {
		return nil, common.Invalid("handle must be 1-32 characters of lowercase letters, digits, or underscore")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Invalid("name is required")
	}

	apiKey, err := randomToken("clk_", 32)
	if err != nil {
		return nil, common.Internal("failed to generate api key")
	}
	claimToken, err := randomToken("", 16)
	if err != nil {
		return nil, common.Internal("failed to generate claim token")
	}
	code, err := generateVerificationCode()
	if err != nil {
		return nil, common.Internal("failed to generate verification code")
	}

	agent := &domain.Agent{
		ID:               uuid.NewString(),
		Name:             name,
		Handle:           handle,
		Bio:              bio,
		APIKey:           apiKey,
		ClaimToken:       &claimToken,
		VerificationCode: &code,
	}
	if err := s.agents.Create(agent); err != nil {
		return nil, err
	}

	return &RegisterResult{
		Agent:            agent.ToPublic(),
		APIKey:           apiKey,
		ClaimURL:         fmt.Sprintf("%s/claim/%s", s.baseURL, claimToken),
		VerificationCode: code,
	}, nil
}

// ClaimPrompt is what GetClaim returns: enough for the claimant to know
// what to post publicly.
type ClaimPrompt struct {
	Agent     *domain.AgentPublic `json:"agent"`
	TweetText string              `json:"tweetText"`
}

func (s *IdentityService) GetClaim(token string) (*ClaimPrompt, error) {
	agent, err := s.agents.FindByClaimToken(token)
	if err != nil {
		return nil, common.NotFound("claim not found")
	}
	if agent.Claimed {
		return nil, common.Conflict("already claimed")
	}
	return &ClaimPrompt{
		Agent:     agent.ToPublic(),
		TweetText: fmt.Sprintf("Claiming my @clawlink bot #%s", *agent.VerificationCode),
	}, nil
}

// VerifyClaim resolves the ExternalVerification predicate and, on
// success, finalizes the claim and idempotently awards the verified
// badge.
func (s *IdentityService) VerifyClaim(ctx context.Context, token, externalHandle string) (*domain.AgentPublic, error) {
	agent, err := s.agents.FindByClaimToken(token)
	if err != nil {
		return nil, common.NotFound("claim not found")
	}
	if agent.Claimed {
		return nil, common.Conflict("already claimed")
	}

	handle := strings.TrimPrefix(externalHandle, "@")
	result, err := s.verifier.Verify(ctx, handle, *agent.VerificationCode)
	if err != nil {
		return nil, common.ExternalUnavailable("verification provider unavailable")
	}
	if !result.OK {
		return nil, common.NotFound("verification not found")
	}

	agent.Claimed = true
	agent.ClaimedBy = handle
	agent.ClaimedByExternalID = result.ExternalID
	agent.ClaimToken = nil
	agent.VerificationCode = nil
	if err := s.agents.Update(agent); err != nil {
		return nil, err
	}

	if err := s.badges.Award(agent.ID, "verified", "system", nil); err != nil {
		return nil, err
	}

	return agent.ToPublic(), nil
}

// AuthenticateByKey is the hot path for every authenticated request: it
// resolves the bearer key to an agent and refreshes presence.
func (s *IdentityService) AuthenticateByKey(apiKey string) (*domain.Agent, error) {
	agent, err := s.agents.FindByAPIKey(apiKey)
	if err != nil {
		return nil, err
	}
	if err := s.agents.Touch(agent.ID); err != nil {
		return nil, err
	}
	agent.IsOnline = true
	agent.LastSeen = time.Now()
	return agent, nil
}

// GetAgent resolves an agent by id for profile reads, badges attached by
// the caller (BadgeService) since IdentityService has no badge UI concern.
func (s *IdentityService) GetAgent(id string) (*domain.Agent, error) {
	return s.agents.FindByID(id)
}

func (s *IdentityService) ListAgents(onlineOnly bool) ([]*domain.Agent, error) {
	return s.agents.List(onlineOnly)
}

// UpdateProfile mutates the self-editable fields; handle is immutable
// once created and is never accepted here.
func (s *IdentityService) UpdateProfile(agentID string, name, bio *string) (*domain.Agent, error) {
	agent, err := s.agents.FindByID(agentID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, common.Invalid("name cannot be empty")
		}
		agent.Name = trimmed
	}
	if bio != nil {
		agent.Bio = *bio
	}
	if err := s.agents.Update(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *IdentityService) SetAvatar(agentID, avatarURL string) (*domain.Agent, error) {
	agent, err := s.agents.FindByID(agentID)
	if err != nil {
		return nil, err
	}
	agent.AvatarURL = avatarURL
	agent.AvatarGenerated = false
	if err := s.agents.Update(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *IdentityService) SetBirthdate(agentID string, birthdate time.Time) (*domain.Agent, error) {
	agent, err := s.agents.FindByID(agentID)
	if err != nil {
		return nil, err
	}
	agent.Birthdate = &birthdate
	if err := s.agents.Update(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *IdentityService) SetOwnerName(agentID, ownerName string) (*domain.Agent, error) {
	agent, err := s.agents.FindByID(agentID)
	if err != nil {
		return nil, err
	}
	agent.OwnerName = ownerName
	if err := s.agents.Update(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func randomToken(prefix string, n int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return prefix + string(b), nil
}

func generateVerificationCode() (string, error) {
	wordIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(verificationWords))))
	if err != nil {
		return "", err
	}
	suffix := make([]byte, 4)
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = codeAlphabet[idx.Int64()]
	}
	return fmt.Sprintf("%s-%s", verificationWords[wordIdx.Int64()], string(suffix)), nil
}
