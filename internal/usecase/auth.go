package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yaduvivaah/agent-portal-api/internal/auth"
	"github.com/yaduvivaah/agent-portal-api/internal/mailer"
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/repository"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/verification"
)

// AuthResult is the outcome of a completed login or registration: a bearer
// token for subsequent requests plus the authenticated agent record.
type AuthResult struct {
	Token string
	Agent *model.Agent
}

// AuthUsecase drives the two-step registration and login wizards.
type authUsecase struct {
	agentRepo   repository.AgentRepository
	gateway     verification.Gateway
	uploader    storage.Uploader
	mail        mailer.Sender
	sessions    *session.Manager
	tokens      auth.TokenIssuer
	enrollments *enrollmentStore
	countryCode string
	logger      *zerolog.Logger
	now         func() time.Time
}

// AuthUsecase is the interface exposed to the HTTP layer.
type AuthUsecase interface {
	BeginRegistration(ctx context.Context, fields RegistrationFields, files RegistrationFiles) (string, error)
	CompleteRegistration(ctx context.Context, enrollmentID, code string) (*AuthResult, error)
	BeginLogin(ctx context.Context, phoneNumber string) (string, error)
	CompleteLogin(ctx context.Context, enrollmentID, code string) (*AuthResult, error)
	Logout(sessionID string)
}

// NewAuthUsecase wires the wizard's collaborators.
func NewAuthUsecase(
	agentRepo repository.AgentRepository,
	gateway verification.Gateway,
	uploader storage.Uploader,
	mail mailer.Sender,
	sessions *session.Manager,
	tokens auth.TokenIssuer,
	countryCode string,
	logger *zerolog.Logger,
) AuthUsecase {
	now := time.Now
	return &authUsecase{
		agentRepo:   agentRepo,
		gateway:     gateway,
		uploader:    uploader,
		mail:        mail,
		sessions:    sessions,
		tokens:      tokens,
		enrollments: newEnrollmentStore(now),
		countryCode: countryCode,
		logger:      logger,
		now:         now,
	}
}

// Logout destroys the session. Unknown session IDs are ignored: logout is
// idempotent.
func (u *authUsecase) Logout(sessionID string) {
	u.sessions.Destroy(sessionID)
}

func (u *authUsecase) establishSession(identityToken string, agent *model.Agent) (*AuthResult, error) {
	token, sessionID, err := u.tokens.Issue(identityToken)
	if err != nil {
		return nil, err
	}

	u.sessions.Establish(sessionID, identityToken, agent)

	return &AuthResult{Token: token, Agent: agent}, nil
}
