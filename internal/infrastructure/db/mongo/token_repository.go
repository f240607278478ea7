package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zabilal/sims-api/internal/core/domain"
)

const tokensCollection = "tokens"

// TokenRepository stores refresh and reset-password tokens. Access tokens
// never reach this collection.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

type tokenDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Token       string             `bson:"token"`
	UserID      string             `bson:"user"`
	Type        string             `bson:"type"`
	Expires     time.Time          `bson:"expires"`
	Blacklisted bool               `bson:"blacklisted"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d tokenDoc) toDomain() *domain.Token {
	return &domain.Token{
		ID:          d.ID.Hex(),
		Token:       d.Token,
		UserID:      d.UserID,
		Type:        d.Type,
		Expires:     d.Expires,
		Blacklisted: d.Blacklisted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *TokenRepository) Save(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, tokenDoc{
		Token:       token.Token,
		UserID:      token.UserID,
		Type:        token.Type,
		Expires:     token.Expires,
		Blacklisted: token.Blacklisted,
		CreatedAt:   token.CreatedAt,
		UpdatedAt:   token.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	saved := *token
	saved.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &saved, nil
}

func (r *TokenRepository) FindActive(ctx context.Context, token, tokenType string) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	err := r.coll.FindOne(ctx, bson.M{
		"token":       token,
		"type":        tokenType,
		"blacklisted": false,
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTokenNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID, tokenType string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"user": userID, "type": tokenType})
	if err != nil {
		return fmt.Errorf("delete tokens for user: %w", err)
	}
	return nil
}

// EnsureIndexes creates lookup indexes plus a TTL index that expires rows
// once their expiry passes.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "type", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires", Value: 1}},
			Options: indexExpireAt(),
		},
	})
	return err
}
