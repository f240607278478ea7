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
	"github.com/zabilal/sims-api/internal/core/ports"
)

const schoolsCollection = "schools"

type SchoolRepository struct {
	coll *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) *SchoolRepository {
	return &SchoolRepository{coll: db.Collection(schoolsCollection)}
}

type schoolDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Address    string             `bson:"address"`
	Phone      string             `bson:"phone"`
	PrePrimary string             `bson:"prePrimary,omitempty"`
	Primary    string             `bson:"primary,omitempty"`
	Secondary  string             `bson:"secondary,omitempty"`
	SchoolID   string             `bson:"schoolId"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d schoolDoc) toDomain() *domain.School {
	return &domain.School{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Email:      d.Email,
		Address:    d.Address,
		Phone:      d.Phone,
		PrePrimary: d.PrePrimary,
		Primary:    d.Primary,
		Secondary:  d.Secondary,
		SchoolID:   d.SchoolID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func schoolToDoc(s *domain.School) schoolDoc {
	return schoolDoc{
		Name:       s.Name,
		Email:      s.Email,
		Address:    s.Address,
		Phone:      s.Phone,
		PrePrimary: s.PrePrimary,
		Primary:    s.Primary,
		Secondary:  s.Secondary,
		SchoolID:   s.SchoolID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, school *domain.School) (*domain.School, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, schoolToDoc(school))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSchoolEmailTaken
		}
		return nil, fmt.Errorf("insert school: %w", err)
	}

	created := *school
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*domain.School, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSchoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc schoolDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("find school: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SchoolRepository) FindByTenantID(ctx context.Context, tenantID string) (*domain.School, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc schoolDoc
	if err := r.coll.FindOne(ctx, bson.M{"schoolId": tenantID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("find school by tenant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SchoolRepository) IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"email": email}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count schools by email: %w", err)
	}
	return n > 0, nil
}

func (r *SchoolRepository) Update(ctx context.Context, school *domain.School) (*domain.School, error) {
	oid, err := primitive.ObjectIDFromHex(school.ID)
	if err != nil {
		return nil, domain.ErrSchoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, schoolToDoc(school))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSchoolEmailTaken
		}
		return nil, fmt.Errorf("update school: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrSchoolNotFound
	}
	return school, nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSchoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSchoolNotFound
	}
	return nil
}

func (r *SchoolRepository) List(ctx context.Context, filter ports.SchoolFilter, opts ports.PageOptions) ([]*domain.School, int64, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = filter.Name
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}

	docs, total, err := findPage[schoolDoc](ctx, r.coll, query, opts)
	if err != nil {
		return nil, 0, err
	}

	schools := make([]*domain.School, 0, len(docs))
	for _, d := range docs {
		schools = append(schools, d.toDomain())
	}
	return schools, total, nil
}

// EnsureIndexes creates the unique email index plus the tenant lookup index.
func (r *SchoolRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: indexUnique(),
		},
		{
			Keys:    bson.D{{Key: "schoolId", Value: 1}},
			Options: indexUnique(),
		},
	})
	return err
}
