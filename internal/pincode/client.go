// Package pincode resolves 6-digit Indian postal codes to an address triple
// via the public postal pincode API.
package pincode

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// Address is the resolved region/district/state triple for a pincode.
// Resolutions always overwrite previous values wholesale, never merge.
type Address struct {
	Region   string `json:"region"`
	District string `json:"district"`
	State    string `json:"state"`
}

// Lookup resolves a postal code to an address.
type Lookup interface {
	Resolve(ctx context.Context, code string) (*Address, error)
}

// Client is a Lookup backed by the postal pincode REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a pincode client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type lookupResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Region   string `json:"Region"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// Resolve implements Lookup. The first post office of the first matching
// entry wins, matching the upstream API convention.
func (c *Client) Resolve(ctx context.Context, code string) (*Address, error) {
	if !pincodePattern.MatchString(code) {
		return nil, apperror.New(apperror.KindValidation, "please enter a valid 6-digit pincode")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+code, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransport, "pincode lookup service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Newf(apperror.KindTransport, "pincode lookup returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperror.Wrap(apperror.KindTransport, "pincode lookup returned an unexpected response", err)
	}

	if len(body) == 0 || body[0].Status != "Success" || len(body[0].PostOffice) == 0 {
		return nil, apperror.New(apperror.KindValidation, "invalid pincode, please enter a valid pincode")
	}

	po := body[0].PostOffice[0]
	return &Address{Region: po.Region, District: po.District, State: po.State}, nil
}
