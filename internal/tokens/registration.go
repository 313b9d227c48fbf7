package tokens

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrValidation: the parchment failed the pattern check or the live profile
// check. User-visible as a rejection notice; never propagates past the
// workflow boundary as anything else.
var ErrValidation = errors.New("token document failed validation")

var tokenPattern = regexp.MustCompile(`^trm_(test|live)_[A-Za-z0-9]+$`)

// ProfileChecker is the live half of verification: a bearer lookup that
// succeeds only for a real account.
type ProfileChecker interface {
	CheckProfile(ctx context.Context, token string) error
}

// Notices delivers the verification outcome to the player. Optional.
type Notices interface {
	TokenVerified(ctx context.Context, playerID uint32)
	TokenRejected(ctx context.Context, playerID uint32, reason string)
}

// Registration verifies a player's two-page token parchment and stores the
// link on success. No retry; the player resubmits a corrected parchment.
type Registration struct {
	Links   *Links
	Profile ProfileChecker
	Notices Notices
	Logger  *zap.Logger
}

func NewRegistration(links *Links, profile ProfileChecker, logger *zap.Logger) *Registration {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registration{Links: links, Profile: profile, Logger: logger}
}

// VerifyParchment checks the document and, when it passes, links the trimmed
// page-2 text as the player's token (overwriting any prior value).
//
// The pattern check short-circuits: garbage text is rejected without ever
// hitting the remote API.
func (r *Registration) VerifyParchment(ctx context.Context, playerID uint32, pages []string) (string, error) {
	token, err := r.verify(ctx, playerID, pages)
	if errors.Is(err, ErrValidation) {
		if r.Notices != nil {
			r.Notices.TokenRejected(ctx, playerID, err.Error())
		}
		return "", err
	}
	if err != nil {
		return "", err
	}
	if r.Notices != nil {
		r.Notices.TokenVerified(ctx, playerID)
	}
	return token, nil
}

func (r *Registration) verify(ctx context.Context, playerID uint32, pages []string) (string, error) {
	if len(pages) < 2 {
		return "", fmt.Errorf("%w: parchment needs two pages", ErrValidation)
	}
	token := strings.TrimSpace(pages[1])
	if token == "" {
		return "", fmt.Errorf("%w: second page is empty", ErrValidation)
	}
	if !tokenPattern.MatchString(token) {
		return "", fmt.Errorf("%w: text does not look like a terminal token", ErrValidation)
	}

	if err := r.Profile.CheckProfile(ctx, token); err != nil {
		r.Logger.Warn("token profile check failed", zap.Uint32("player_id", playerID), zap.Error(err))
		return "", fmt.Errorf("%w: remote profile check failed", ErrValidation)
	}

	if err := r.Links.Set(ctx, playerID, token); err != nil {
		// gagal simpan link = workflow gagal; player dapat rejection dan
		// bisa submit ulang, jangan bocorin error mentah ke atas
		r.Logger.Error("failed to store token link", zap.Uint32("player_id", playerID), zap.Error(err))
		return "", fmt.Errorf("%w: could not store token, try again", ErrValidation)
	}
	r.Logger.Info("player linked terminal token", zap.Uint32("player_id", playerID))
	return token, nil
}
