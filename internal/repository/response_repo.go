package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"formpilot/internal/model"
)

// ResponseRepo handles MongoDB operations for form responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) error
	GetByFormID(ctx context.Context, formID string) ([]*model.Response, error)
	UpdateAnomalyReason(ctx context.Context, id, reason string) error
	DeleteByFormID(ctx context.Context, formID string) (int64, error)
	DeleteExpired(ctx context.Context, ownerID string, before time.Time) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, response)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		response.ID = oid.Hex()
	}
	return nil
}

func (r *responseRepo) GetByFormID(ctx context.Context, formID string) ([]*model.Response, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) UpdateAnomalyReason(ctx context.Context, id, reason string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"anomalyReason": reason}})
	return err
}

func (r *responseRepo) DeleteByFormID(ctx context.Context, formID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *responseRepo) DeleteExpired(ctx context.Context, ownerID string, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"ownerId":   ownerID,
		"createdAt": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
