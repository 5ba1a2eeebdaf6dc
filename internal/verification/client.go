package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
)

// Client is a Gateway implementation backed by an identity-toolkit style REST
// API: one call sends the verification code, a second call confirms it and
// returns the caller's durable identity.
type Client struct {
	baseURL     string
	apiKey      string
	countryCode string
	httpClient  *http.Client
}

// NewClient creates a verification client from configuration.
func NewClient(cfg config.VerificationConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		countryCode: cfg.CountryCode,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
}

type verifyCodeRequest struct {
	SessionInfo string `json:"sessionInfo"`
	Code        string `json:"code"`
}

type verifyCodeResponse struct {
	LocalID     string `json:"localId"`
	PhoneNumber string `json:"phoneNumber"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RequestChallenge implements Gateway.
func (c *Client) RequestChallenge(ctx context.Context, phone string) (string, error) {
	if err := ValidateMobile(phone); err != nil {
		return "", err
	}

	var resp sendCodeResponse
	err := c.post(ctx, "/v1/accounts:sendVerificationCode", sendCodeRequest{
		PhoneNumber: NormalizePhone(phone, c.countryCode),
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.SessionInfo == "" {
		return "", apperror.New(apperror.KindTransport, "verification service returned an empty challenge")
	}

	return resp.SessionInfo, nil
}

// ConfirmChallenge implements Gateway.
func (c *Client) ConfirmChallenge(ctx context.Context, handle, code string) (*Identity, error) {
	var resp verifyCodeResponse
	err := c.post(ctx, "/v1/accounts:verifyPhoneNumber", verifyCodeRequest{
		SessionInfo: handle,
		Code:        code,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.LocalID == "" {
		return nil, apperror.New(apperror.KindTransport, "verification service returned an empty identity")
	}

	return &Identity{Token: resp.LocalID, PhoneNumber: resp.PhoneNumber}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	url := c.baseURL + path + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.KindTransport, "verification service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.StatusCode, resp.Body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(status int, body io.Reader) error {
	var apiErr apiError
	_ = json.NewDecoder(body).Decode(&apiErr)

	switch apiErr.Error.Message {
	case "INVALID_CODE":
		return apperror.New(apperror.KindVerification, "incorrect verification code, please try again")
	case "SESSION_EXPIRED", "CODE_EXPIRED", "INVALID_SESSION_INFO":
		return apperror.New(apperror.KindChallengeExpired, "verification code has expired, please request a new one")
	case "INVALID_PHONE_NUMBER":
		return apperror.New(apperror.KindValidation, "please enter a valid phone number")
	case "TOO_MANY_ATTEMPTS_TRY_LATER", "QUOTA_EXCEEDED":
		return apperror.New(apperror.KindTransport, "too many attempts, please try again later")
	}

	return apperror.Newf(apperror.KindTransport, "verification service returned status %d", status)
}
