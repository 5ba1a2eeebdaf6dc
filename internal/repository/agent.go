package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yaduvivaah/agent-portal-api/internal/model"
)

// AgentRepository defines the database operations on agent records.
type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *model.Agent) (*model.Agent, error)
	GetAgent(ctx context.Context, identityToken string) (*model.Agent, error)
	GetAgentByPhone(ctx context.Context, phone string) (*model.Agent, error)
	GetAgentByEmail(ctx context.Context, email string) (*model.Agent, error)
	UpdateAgent(ctx context.Context, identityToken string, params UpdateAgentParams) (*model.Agent, error)
	SetReferenceCode(ctx context.Context, identityToken, code string) error
	StampLastLogin(ctx context.Context, identityToken string) error
}

// UpdateAgentParams defines the optional parameters for updating an agent.
// Only the fields that are not nil will be updated; the merge is
// last-write-wins with no optimistic concurrency control.
type UpdateAgentParams struct {
	Name         *string
	Email        *string
	DateOfBirth  *string
	Experience   *int
	Pincode      *string
	Region       *string
	District     *string
	State        *string
	AddressLine1 *string
	AddressLine2 *string
	PhotoURL     *string
}

const agentCollection = "agents"

type agentMongoRepository struct {
	db *mongo.Database
}

// NewAgentMongoRepository creates the mongo-backed agent repository. Unique
// indexes on phone and email back up the registration pre-check; the
// check-then-create gap between two concurrent registrations is otherwise
// accepted.
func NewAgentMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AgentRepository {
	collection := db.Collection(agentCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create agent indexes")
	}

	return &agentMongoRepository{db: db}
}

func (r *agentMongoRepository) CreateAgent(ctx context.Context, agent *model.Agent) (*model.Agent, error) {
	agent.CreatedAt = time.Now()

	if _, err := r.db.Collection(agentCollection).InsertOne(ctx, agent); err != nil {
		return nil, err
	}

	return agent, nil
}

func (r *agentMongoRepository) GetAgent(ctx context.Context, identityToken string) (*model.Agent, error) {
	return r.findOne(ctx, bson.M{"_id": identityToken})
}

func (r *agentMongoRepository) GetAgentByPhone(ctx context.Context, phone string) (*model.Agent, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *agentMongoRepository) GetAgentByEmail(ctx context.Context, email string) (*model.Agent, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *agentMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Agent, error) {
	result := r.db.Collection(agentCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var agent model.Agent
	if err := result.Decode(&agent); err != nil {
		return nil, err
	}

	return &agent, nil
}

func (r *agentMongoRepository) UpdateAgent(
	ctx context.Context,
	identityToken string,
	params UpdateAgentParams,
) (*model.Agent, error) {
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.DateOfBirth != nil {
		updateMap["dob"] = *params.DateOfBirth
	}
	if params.Experience != nil {
		updateMap["experience"] = *params.Experience
	}
	if params.Pincode != nil {
		updateMap["pincode"] = *params.Pincode
	}
	if params.Region != nil {
		updateMap["region"] = *params.Region
	}
	if params.District != nil {
		updateMap["district"] = *params.District
	}
	if params.State != nil {
		updateMap["state"] = *params.State
	}
	if params.AddressLine1 != nil {
		updateMap["address_line_1"] = *params.AddressLine1
	}
	if params.AddressLine2 != nil {
		updateMap["address_line_2"] = *params.AddressLine2
	}
	if params.PhotoURL != nil {
		updateMap["photo_url"] = *params.PhotoURL
	}

	if len(updateMap) == 0 {
		return r.GetAgent(ctx, identityToken)
	}

	result := r.db.Collection(agentCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": identityToken},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var agent model.Agent
	if err := result.Decode(&agent); err != nil {
		return nil, err
	}

	return &agent, nil
}

// SetReferenceCode assigns the reference code only when the record does not
// already carry one, keeping the code immutable after first assignment.
func (r *agentMongoRepository) SetReferenceCode(ctx context.Context, identityToken, code string) error {
	_, err := r.db.Collection(agentCollection).UpdateOne(
		ctx,
		bson.M{"_id": identityToken, "reference_code": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"reference_code": code}},
	)
	return err
}

func (r *agentMongoRepository) StampLastLogin(ctx context.Context, identityToken string) error {
	_, err := r.db.Collection(agentCollection).UpdateOne(
		ctx,
		bson.M{"_id": identityToken},
		bson.M{"$set": bson.M{"last_login_at": time.Now()}},
	)
	return err
}
