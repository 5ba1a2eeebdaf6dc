package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/verification"
)

// BeginLogin checks the phone belongs to a registered agent and issues a
// verification challenge.
func (u *authUsecase) BeginLogin(ctx context.Context, phoneNumber string) (string, error) {
	if err := verification.ValidateMobile(phoneNumber); err != nil {
		return "", err
	}

	normalized := verification.NormalizePhone(phoneNumber, u.countryCode)

	_, err := u.agentRepo.GetAgentByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", apperror.New(apperror.KindNotFound, "no account found with this phone number, please register first")
		}
		return "", apperror.Wrap(apperror.KindTransport, "failed to look up your account, please try again", err)
	}

	handle, err := u.gateway.RequestChallenge(ctx, phoneNumber)
	if err != nil {
		return "", err
	}

	id := u.enrollments.put(&enrollment{
		Kind:            enrollLogin,
		NormalizedPhone: normalized,
		ChallengeHandle: handle,
	})

	u.logger.Info().Str("phone", normalized).Msg("login challenge issued")

	return id, nil
}

// CompleteLogin confirms the OTP, loads the agent record, stamps the
// last-login timestamp and establishes the session.
func (u *authUsecase) CompleteLogin(ctx context.Context, enrollmentID, code string) (*AuthResult, error) {
	if err := validateOTP(code); err != nil {
		return nil, err
	}

	enr := u.enrollments.get(enrollmentID)
	if enr == nil || enr.Kind != enrollLogin {
		return nil, apperror.New(apperror.KindChallengeExpired, "your session has expired, please log in again")
	}

	identity, err := u.gateway.ConfirmChallenge(ctx, enr.ChallengeHandle, code)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindChallengeExpired {
			u.enrollments.remove(enrollmentID)
		}
		return nil, err
	}

	u.enrollments.remove(enrollmentID)

	agent, err := u.agentRepo.GetAgent(ctx, identity.Token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.New(apperror.KindNotFound, "agent profile not found, please register first")
		}
		return nil, apperror.Wrap(apperror.KindTransport, "failed to load your profile, please try again", err)
	}

	if err := u.agentRepo.StampLastLogin(ctx, identity.Token); err != nil {
		u.logger.Error().Err(err).Str("identity", identity.Token).Msg("failed to stamp last login")
	}

	u.logger.Info().Str("identity", identity.Token).Msg("agent logged in")

	return u.establishSession(identity.Token, agent)
}
