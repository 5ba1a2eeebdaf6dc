package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/pincode"
	"github.com/yaduvivaah/agent-portal-api/internal/repository"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
)

// Profile is an agent record together with the age derived from the date of
// birth. Age is recomputed on every read and never stored.
type Profile struct {
	*model.Agent
	Age int `json:"age"`
}

// ProfileDraft carries a full-draft profile save. Nil fields are left
// untouched; the handler sends every editable field on save, so a normal
// save replaces the whole draft.
type ProfileDraft struct {
	Name         *string
	Email        *string
	DateOfBirth  *string
	Experience   *int
	Pincode      *string
	AddressLine1 *string
	AddressLine2 *string
}

// ProfileUsecase reads and edits the authenticated agent's record.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, identityToken string) (*Profile, error)
	UpdateProfile(ctx context.Context, identityToken string, draft ProfileDraft) (*Profile, error)
	ReplacePhoto(ctx context.Context, identityToken string, file *storage.File) (*Profile, error)
}

type profileUsecase struct {
	agentRepo repository.AgentRepository
	uploader  storage.Uploader
	pincodes  pincode.Lookup
	sessions  *session.Manager
	logger    *zerolog.Logger
	now       func() time.Time
}

// NewProfileUsecase wires the profile editor's collaborators.
func NewProfileUsecase(
	agentRepo repository.AgentRepository,
	uploader storage.Uploader,
	pincodes pincode.Lookup,
	sessions *session.Manager,
	logger *zerolog.Logger,
) ProfileUsecase {
	return &profileUsecase{
		agentRepo: agentRepo,
		uploader:  uploader,
		pincodes:  pincodes,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// GetProfile loads the record and lazily assigns the reference code the
// first time the record is observed without one. The code is immutable once
// set.
func (u *profileUsecase) GetProfile(ctx context.Context, identityToken string) (*Profile, error) {
	agent, err := u.getAgent(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	if agent.ReferenceCode == "" {
		code, err := newReferenceCode()
		if err != nil {
			return nil, err
		}
		if err := u.agentRepo.SetReferenceCode(ctx, identityToken, code); err != nil {
			return nil, apperror.Wrap(apperror.KindTransport, "failed to assign reference code, please try again", err)
		}
		// Re-read rather than trust our candidate: a concurrent first read
		// may have won the set-once race.
		agent, err = u.getAgent(ctx, identityToken)
		if err != nil {
			return nil, err
		}
	}

	return u.toProfile(agent)
}

// UpdateProfile persists a full draft. A pincode change re-resolves the
// region/district/state triple, which overwrites the stored values wholesale.
func (u *profileUsecase) UpdateProfile(
	ctx context.Context,
	identityToken string,
	draft ProfileDraft,
) (*Profile, error) {
	agent, err := u.getAgent(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	if draft.Name != nil {
		if err := validateName(*draft.Name); err != nil {
			return nil, err
		}
	}
	if draft.Email != nil {
		if err := validateEmail(*draft.Email); err != nil {
			return nil, err
		}
	}

	dob := agent.DateOfBirth
	if draft.DateOfBirth != nil {
		dob = *draft.DateOfBirth
	}
	age, err := ageFromDOB(dob, u.now())
	if err != nil {
		return nil, err
	}

	experience := agent.Experience
	if draft.Experience != nil {
		experience = *draft.Experience
	}
	if experience < 0 || experience >= age {
		return nil, apperror.New(apperror.KindValidation, "experience should be less than age")
	}

	params := repository.UpdateAgentParams{
		Name:         draft.Name,
		Email:        draft.Email,
		DateOfBirth:  draft.DateOfBirth,
		Experience:   draft.Experience,
		Pincode:      draft.Pincode,
		AddressLine1: draft.AddressLine1,
		AddressLine2: draft.AddressLine2,
	}

	if draft.Pincode != nil && *draft.Pincode != agent.Pincode {
		addr, err := u.pincodes.Resolve(ctx, *draft.Pincode)
		if err != nil {
			return nil, err
		}
		params.Region = &addr.Region
		params.District = &addr.District
		params.State = &addr.State
	}

	updated, err := u.agentRepo.UpdateAgent(ctx, identityToken, params)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransport, "failed to save your profile, please try again", err)
	}

	u.sessions.Refresh(identityToken, updated)

	return u.toProfile(updated)
}

// ReplacePhoto uploads a new display picture and immediately persists the
// new locator.
func (u *profileUsecase) ReplacePhoto(
	ctx context.Context,
	identityToken string,
	file *storage.File,
) (*Profile, error) {
	url, err := u.uploader.Upload(ctx, identityToken, storage.CategoryDisplayPicture, file)
	if err != nil {
		return nil, err
	}

	updated, err := u.agentRepo.UpdateAgent(ctx, identityToken, repository.UpdateAgentParams{
		PhotoURL: &url,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransport, "failed to save your new photo, please try again", err)
	}

	u.sessions.Refresh(identityToken, updated)

	return u.toProfile(updated)
}

func (u *profileUsecase) getAgent(ctx context.Context, identityToken string) (*model.Agent, error) {
	agent, err := u.agentRepo.GetAgent(ctx, identityToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.New(apperror.KindNotFound, "agent profile not found")
		}
		return nil, apperror.Wrap(apperror.KindTransport, "failed to load your profile, please try again", err)
	}
	return agent, nil
}

func (u *profileUsecase) toProfile(agent *model.Agent) (*Profile, error) {
	age, err := ageFromDOB(agent.DateOfBirth, u.now())
	if err != nil {
		// A record written before DOB validation existed; surface the profile
		// with a zero age instead of failing the read.
		u.logger.Warn().Str("identity", agent.IdentityToken).Msg("agent record has an unparseable date of birth")
		age = 0
	}
	return &Profile{Agent: agent, Age: age}, nil
}
