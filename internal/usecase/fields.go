package usecase

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"time"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

// RegistrationFields are the validated step-one inputs of the registration
// wizard, minus the document images.
type RegistrationFields struct {
	Name         string
	PhoneNumber  string
	Email        string
	DateOfBirth  string
	Experience   int
	Pincode      string
	Region       string
	District     string
	State        string
	AddressLine1 string
	AddressLine2 string
}

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

const dobLayout = "2006-01-02"

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return apperror.New(apperror.KindValidation, "name should contain only alphabets and spaces")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperror.New(apperror.KindValidation, "please enter a valid email address")
	}
	return nil
}

func validateOTP(code string) error {
	if !codePattern.MatchString(code) {
		return apperror.New(apperror.KindValidation, "please enter a valid 6-digit OTP")
	}
	return nil
}

// ageFromDOB computes completed years between dob (yyyy-mm-dd) and now. The
// year difference is decremented until the birthday anniversary has passed.
func ageFromDOB(dob string, now time.Time) (int, error) {
	birth, err := time.Parse(dobLayout, dob)
	if err != nil {
		return 0, apperror.New(apperror.KindValidation, "please enter a valid date of birth")
	}
	if birth.After(now) {
		return 0, apperror.New(apperror.KindValidation, "date of birth cannot be in the future")
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, nil
}

const referenceCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newReferenceCode generates the 8-character referral code assigned once per
// agent.
func newReferenceCode() (string, error) {
	code := make([]byte, 8)
	max := big.NewInt(int64(len(referenceCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referenceCodeChars[n.Int64()]
	}
	return string(code), nil
}
