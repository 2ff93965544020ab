package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"raglobal-chat/internal/model"
)

// LeadRepository is the persistent conversation store. The retriever reads
// the whole collection once per snapshot build; the trainer reads it per
// training run and counts it from the freshness monitor.
type LeadRepository interface {
	GetAll(ctx context.Context) ([]*model.Lead, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, lead *model.Lead) error
}

type leadRepository struct {
	collection *mongo.Collection
}

// NewLeadRepository creates a Mongo-backed lead repository on the "leads"
// collection.
func NewLeadRepository(db *mongo.Database) LeadRepository {
	return &leadRepository{
		collection: db.Collection("leads"),
	}
}

func (r *leadRepository) GetAll(ctx context.Context) ([]*model.Lead, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []*model.Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}

	return leads, nil
}

func (r *leadRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *leadRepository) Insert(ctx context.Context, lead *model.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, lead)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid.Hex()
	}

	return nil
}
