package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/pincode"
	"github.com/yaduvivaah/agent-portal-api/internal/repository"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/verification"
)

// -------- test fakes --------

func agentFixture(token, phone, email string) *model.Agent {
	return &model.Agent{
		IdentityToken: token,
		Name:          "Existing Agent",
		PhoneNumber:   phone,
		Email:         email,
		DateOfBirth:   "1990-01-01",
		Experience:    3,
		Status:        model.AgentStatusActive,
	}
}

type fakeAgentRepo struct {
	mu     sync.Mutex
	agents map[string]*model.Agent

	createErr  error
	getErr     error
	refCodeErr error

	refCodeSets int
	lastLogins  int
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: make(map[string]*model.Agent)}
}

func (f *fakeAgentRepo) CreateAgent(_ context.Context, agent *model.Agent) (*model.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.agents[agent.IdentityToken] = agent
	return agent, nil
}

func (f *fakeAgentRepo) GetAgent(_ context.Context, identityToken string) (*model.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	agent, ok := f.agents[identityToken]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *agent
	return &copied, nil
}

func (f *fakeAgentRepo) GetAgentByPhone(_ context.Context, phone string) (*model.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.agents {
		if a.PhoneNumber == phone {
			copied := *a
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAgentRepo) GetAgentByEmail(_ context.Context, email string) (*model.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.agents {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAgentRepo) UpdateAgent(
	_ context.Context,
	identityToken string,
	params repository.UpdateAgentParams,
) (*model.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agent, ok := f.agents[identityToken]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if params.Name != nil {
		agent.Name = *params.Name
	}
	if params.Email != nil {
		agent.Email = *params.Email
	}
	if params.DateOfBirth != nil {
		agent.DateOfBirth = *params.DateOfBirth
	}
	if params.Experience != nil {
		agent.Experience = *params.Experience
	}
	if params.Pincode != nil {
		agent.Pincode = *params.Pincode
	}
	if params.Region != nil {
		agent.Region = *params.Region
	}
	if params.District != nil {
		agent.District = *params.District
	}
	if params.State != nil {
		agent.State = *params.State
	}
	if params.AddressLine1 != nil {
		agent.AddressLine1 = *params.AddressLine1
	}
	if params.AddressLine2 != nil {
		agent.AddressLine2 = *params.AddressLine2
	}
	if params.PhotoURL != nil {
		agent.PhotoURL = *params.PhotoURL
	}
	copied := *agent
	return &copied, nil
}

func (f *fakeAgentRepo) SetReferenceCode(_ context.Context, identityToken, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refCodeErr != nil {
		return f.refCodeErr
	}
	agent, ok := f.agents[identityToken]
	if ok && agent.ReferenceCode == "" {
		agent.ReferenceCode = code
		f.refCodeSets++
	}
	return nil
}

func (f *fakeAgentRepo) StampLastLogin(_ context.Context, identityToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogins++
	return nil
}

type fakeGateway struct {
	requests    int
	confirms    int
	requestErr  error
	confirmErr  error
	handle      string
	identity    verification.Identity
	lastPhone   string
	lastHandle  string
	lastOTPCode string
}

func (f *fakeGateway) RequestChallenge(_ context.Context, phone string) (string, error) {
	f.requests++
	f.lastPhone = phone
	if f.requestErr != nil {
		return "", f.requestErr
	}
	if f.handle == "" {
		f.handle = "handle-1"
	}
	return f.handle, nil
}

func (f *fakeGateway) ConfirmChallenge(_ context.Context, handle, code string) (*verification.Identity, error) {
	f.confirms++
	f.lastHandle = handle
	f.lastOTPCode = code
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	identity := f.identity
	return &identity, nil
}

type fakeUploader struct {
	uploads   []string
	failAfter int // fail the (failAfter+1)-th upload; -1 never fails
}

func (f *fakeUploader) Upload(
	_ context.Context,
	identityToken string,
	category storage.Category,
	file *storage.File,
) (string, error) {
	if err := storage.ValidateFile(file); err != nil {
		return "", err
	}
	if f.failAfter >= 0 && len(f.uploads) >= f.failAfter {
		return "", apperror.New(apperror.KindUpload, "failed to upload file, please try again")
	}
	url := fmt.Sprintf("https://files.test/%s/%s/%s", category, identityToken, file.Name)
	f.uploads = append(f.uploads, url)
	return url, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendWelcome(to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePincodeLookup struct {
	addr *pincode.Address
	err  error

	resolved []string
}

func (f *fakePincodeLookup) Resolve(_ context.Context, code string) (*pincode.Address, error) {
	f.resolved = append(f.resolved, code)
	if f.err != nil {
		return nil, f.err
	}
	if f.addr == nil {
		return &pincode.Address{Region: "Bangalore HQ", District: "Bangalore", State: "Karnataka"}, nil
	}
	return f.addr, nil
}
