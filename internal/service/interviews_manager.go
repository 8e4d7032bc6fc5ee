package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/vivekkatkar/PrepSync/internal/core"
)

var (
	ErrFeatureNotAllowed = errors.New("plan does not allow this interview type")
	ErrQuotaExceeded     = errors.New("quota exceeded, upgrade plan to access more interviews")
	ErrNoPeerAvailable   = errors.New("no one is currently available for an interview")
)

// PresenceLister reports which users are currently online.
type PresenceLister interface {
	OnlineUsers(ctx context.Context) ([]string, error)
}

// InterviewsManager creates interviews: it enforces the plan quota, matches
// a peer for one-to-one sessions and records feature usage.
type InterviewsManager struct {
	users       core.UserStorer
	interviews  core.InterviewsStorer
	usage       core.FeatureUsageStorer
	presence    PresenceLister
	frontendURL string
}

func NewInterviewsManager(
	users core.UserStorer,
	interviews core.InterviewsStorer,
	usage core.FeatureUsageStorer,
	presence PresenceLister,
	frontendURL string,
) *InterviewsManager {
	return &InterviewsManager{
		users:       users,
		interviews:  interviews,
		usage:       usage,
		presence:    presence,
		frontendURL: frontendURL,
	}
}

// CreatedInterview is the creation result including the caller's remaining
// allowance.
type CreatedInterview struct {
	*core.Interview
	PlanType core.PlanType `json:"planType"`
	Allowed  Allowance     `json:"allowed"`
}

type Allowance struct {
	Level string `json:"level"`
	Quota *int   `json:"quota"`
	Used  int    `json:"used"`
}

func (m *InterviewsManager) Create(ctx context.Context, userID string, kind core.InterviewType) (*CreatedInterview, error) {
	user, err := m.users.Find(userID)
	if err != nil {
		return nil, err
	}

	feature := core.FeatureOneToOneInterview
	if kind == core.AIInterview {
		feature = core.FeatureAIInterview
	}

	access, allowed := user.Plan.Access(feature)
	if !allowed {
		return nil, ErrFeatureNotAllowed
	}

	used, err := m.usage.UsedCount(userID, feature)
	if err != nil {
		return nil, err
	}
	if access.Quota != nil && used >= *access.Quota {
		return nil, ErrQuotaExceeded
	}

	interview := core.NewInterview(userID, kind, m.frontendURL)

	if kind != core.AIInterview {
		peerID, err := m.matchPeer(ctx, user)
		if err != nil {
			return nil, err
		}
		interview.ScheduledWithID = &peerID
	}

	saved, err := m.interviews.Save(interview)
	if err != nil {
		return nil, err
	}

	if err := m.usage.Increment(userID, feature); err != nil {
		// the interview exists; a lost usage tick is not worth failing it
		log.Error().Err(err).Str("service", "interviews").Str("userID", userID).Msg("increment feature usage")
	}

	return &CreatedInterview{
		Interview: saved,
		PlanType:  user.Plan,
		Allowed: Allowance{
			Level: access.Level,
			Quota: access.Quota,
			Used:  used + 1,
		},
	}, nil
}

// matchPeer picks a random online counterpart. Free plans match any online
// user; paid plans match online experts only.
func (m *InterviewsManager) matchPeer(ctx context.Context, user *core.User) (string, error) {
	online, err := m.presence.OnlineUsers(ctx)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, id := range online {
		if id == user.ID {
			continue
		}

		if user.Plan == core.PlanFree {
			candidates = append(candidates, id)
			continue
		}

		peer, err := m.users.Find(id)
		if err != nil {
			log.Warn().Err(err).Str("service", "interviews").Str("userID", id).Msg("skip unknown online user")
			continue
		}
		if peer.Role == core.RoleExpert {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) == 0 {
		return "", ErrNoPeerAvailable
	}

	return candidates[rand.Intn(len(candidates))], nil
}
