// Package verification implements the ExternalVerification collaborator:
// a predicate proving a claimant controls the external handle they claim
// an agent under, plus the dev-mode short-circuit used when no provider
// credential is configured.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Result is the outcome of a verification attempt.
type Result struct {
	OK         bool
	ExternalID string
}

// Verifier resolves whether externalHandle has posted the verification
// code, per the ExternalVerification contract.
type Verifier interface {
	Verify(ctx context.Context, externalHandle, code string) (Result, error)
}

const requestTimeout = 10 * time.Second

// TwitterVerifier checks the claimant's recent posts on X/Twitter for the
// verification code. It requires TWITTER_BEARER_TOKEN; absence of that
// token is handled by DevModeVerifier instead, never by this type.
type TwitterVerifier struct {
	bearerToken string
	httpClient  *http.Client
}

func NewTwitterVerifier(bearerToken string) *TwitterVerifier {
	return &TwitterVerifier{
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

type twitterUserResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type twitterTweetsResponse struct {
	Data []struct {
		Text string `json:"text"`
	} `json:"data"`
}

func (v *TwitterVerifier) Verify(ctx context.Context, externalHandle, code string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	handle := strings.TrimPrefix(externalHandle, "@")

	userID, err := v.lookupUserID(ctx, handle)
	if err != nil {
		return Result{}, err
	}

	tweets, err := v.recentTweets(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	for _, text := range tweets {
		if strings.Contains(text, code) {
			return Result{OK: true, ExternalID: userID}, nil
		}
	}
	return Result{OK: false, ExternalID: userID}, nil
}

func (v *TwitterVerifier) lookupUserID(ctx context.Context, handle string) (string, error) {
	url := fmt.Sprintf("https://api.twitter.com/2/users/by/username/%s", handle)
	var out twitterUserResponse
	if err := v.getJSON(ctx, url, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("twitter: user %q not found", handle)
	}
	return out.Data.ID, nil
}

func (v *TwitterVerifier) recentTweets(ctx context.Context, userID string) ([]string, error) {
	url := fmt.Sprintf("https://api.twitter.com/2/users/%s/tweets?max_results=10", userID)
	var out twitterTweetsResponse
	if err := v.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(out.Data))
	for _, t := range out.Data {
		texts = append(texts, t.Text)
	}
	return texts, nil
}

func (v *TwitterVerifier) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+v.bearerToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitter: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DevModeVerifier always approves, used when TWITTER_BEARER_TOKEN is
// unset. config.Config.DevModeVerify gates which Verifier is wired at
// startup; this type never decides that for itself.
type DevModeVerifier struct{}

func NewDevModeVerifier() *DevModeVerifier { return &DevModeVerifier{} }

func (v *DevModeVerifier) Verify(_ context.Context, externalHandle, _ string) (Result, error) {
	return Result{OK: true, ExternalID: strings.TrimPrefix(externalHandle, "@")}, nil
}
