package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/verification"
)

// BeginRegistration validates the step-one form, pre-checks phone/email
// uniqueness and issues a verification challenge. The document images are
// held in the flow-local enrollment until the code is confirmed; nothing is
// uploaded or persisted yet.
func (u *authUsecase) BeginRegistration(
	ctx context.Context,
	fields RegistrationFields,
	files RegistrationFiles,
) (string, error) {
	if err := u.validateRegistration(fields, files); err != nil {
		return "", err
	}

	normalized := verification.NormalizePhone(fields.PhoneNumber, u.countryCode)

	if err := u.checkExistingAgent(ctx, normalized, fields.Email); err != nil {
		return "", err
	}

	handle, err := u.gateway.RequestChallenge(ctx, fields.PhoneNumber)
	if err != nil {
		return "", err
	}

	id := u.enrollments.put(&enrollment{
		Kind:            enrollRegister,
		Fields:          fields,
		Files:           files,
		NormalizedPhone: normalized,
		ChallengeHandle: handle,
	})

	u.logger.Info().Str("phone", normalized).Msg("registration challenge issued")

	return id, nil
}

// CompleteRegistration confirms the OTP, uploads the pending documents and
// persists the agent record. A failed upload aborts the whole transition; no
// partial record is committed, though files uploaded earlier in the same
// attempt are not rolled back.
func (u *authUsecase) CompleteRegistration(ctx context.Context, enrollmentID, code string) (*AuthResult, error) {
	if err := validateOTP(code); err != nil {
		return nil, err
	}

	enr := u.enrollments.get(enrollmentID)
	if enr == nil || enr.Kind != enrollRegister {
		return nil, apperror.New(apperror.KindChallengeExpired, "your session has expired, please start the registration again")
	}

	identity, err := u.gateway.ConfirmChallenge(ctx, enr.ChallengeHandle, code)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindChallengeExpired {
			u.enrollments.remove(enrollmentID)
		}
		return nil, err
	}

	photoURL, frontURL, backURL, err := u.uploadDocuments(ctx, identity.Token, enr.Files)
	if err != nil {
		u.enrollments.remove(enrollmentID)
		return nil, err
	}

	agent := &model.Agent{
		IdentityToken: identity.Token,
		Name:          enr.Fields.Name,
		PhoneNumber:   identity.PhoneNumber,
		Email:         enr.Fields.Email,
		DateOfBirth:   enr.Fields.DateOfBirth,
		Experience:    enr.Fields.Experience,
		Pincode:       enr.Fields.Pincode,
		Region:        enr.Fields.Region,
		District:      enr.Fields.District,
		State:         enr.Fields.State,
		AddressLine1:  enr.Fields.AddressLine1,
		AddressLine2:  enr.Fields.AddressLine2,
		PhotoURL:      photoURL,
		AadhaarFront:  frontURL,
		AadhaarBack:   backURL,
		Status:        model.AgentStatusActive,
	}

	if _, err := u.agentRepo.CreateAgent(ctx, agent); err != nil {
		u.enrollments.remove(enrollmentID)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.New(apperror.KindDuplicate, "this phone number or email has just been registered by someone else")
		}
		return nil, apperror.Wrap(apperror.KindTransport, "failed to save your profile, please try again", err)
	}

	u.enrollments.remove(enrollmentID)

	if err := u.mail.SendWelcome(agent.Email, agent.Name); err != nil {
		u.logger.Error().Err(err).Str("email", agent.Email).Msg("failed to send welcome email")
	}

	u.logger.Info().Str("identity", identity.Token).Msg("agent registered")

	return u.establishSession(identity.Token, agent)
}

// validateRegistration runs every step-one check. The first failing check
// wins; state is left unchanged.
func (u *authUsecase) validateRegistration(fields RegistrationFields, files RegistrationFiles) error {
	if err := validateName(fields.Name); err != nil {
		return err
	}
	if err := verification.ValidateMobile(fields.PhoneNumber); err != nil {
		return err
	}
	if err := validateEmail(fields.Email); err != nil {
		return err
	}
	if files.DisplayPicture == nil {
		return apperror.New(apperror.KindValidation, "please upload your display picture")
	}
	if files.AadhaarFront == nil || files.AadhaarBack == nil {
		return apperror.New(apperror.KindValidation, "please upload both sides of your Aadhaar card")
	}
	for _, f := range []*storage.File{files.DisplayPicture, files.AadhaarFront, files.AadhaarBack} {
		if err := storage.ValidateFile(f); err != nil {
			return err
		}
	}
	if fields.Pincode == "" || fields.AddressLine1 == "" {
		return apperror.New(apperror.KindValidation, "please enter your complete address")
	}

	age, err := ageFromDOB(fields.DateOfBirth, u.now())
	if err != nil {
		return err
	}
	if fields.Experience < 0 || fields.Experience >= age {
		return apperror.New(apperror.KindValidation, "experience should be less than age")
	}

	return nil
}

// checkExistingAgent is the best-effort uniqueness pre-check. Two concurrent
// registrations can both pass it; the unique indexes catch the loser at
// create time.
func (u *authUsecase) checkExistingAgent(ctx context.Context, normalizedPhone, email string) error {
	_, err := u.agentRepo.GetAgentByPhone(ctx, normalizedPhone)
	switch {
	case err == nil:
		return apperror.New(apperror.KindDuplicate, "this phone number is already registered, please use a different number")
	case !errors.Is(err, mongo.ErrNoDocuments):
		return apperror.Wrap(apperror.KindTransport, "failed to check existing registrations, please try again", err)
	}

	_, err = u.agentRepo.GetAgentByEmail(ctx, email)
	switch {
	case err == nil:
		return apperror.New(apperror.KindDuplicate, "this email is already registered, please use a different email")
	case !errors.Is(err, mongo.ErrNoDocuments):
		return apperror.Wrap(apperror.KindTransport, "failed to check existing registrations, please try again", err)
	}

	return nil
}

func (u *authUsecase) uploadDocuments(
	ctx context.Context,
	identityToken string,
	files RegistrationFiles,
) (photoURL, frontURL, backURL string, err error) {
	photoURL, err = u.uploader.Upload(ctx, identityToken, storage.CategoryDisplayPicture, files.DisplayPicture)
	if err != nil {
		return "", "", "", err
	}

	frontURL, err = u.uploader.Upload(ctx, identityToken, storage.CategoryAadhaar, files.AadhaarFront)
	if err != nil {
		return "", "", "", err
	}

	backURL, err = u.uploader.Upload(ctx, identityToken, storage.CategoryAadhaar, files.AadhaarBack)
	if err != nil {
		return "", "", "", err
	}

	return photoURL, frontURL, backURL, nil
}
