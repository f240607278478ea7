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

const studentsCollection = "students"

type StudentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: db.Collection(studentsCollection)}
}

type studentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Guardian   string             `bson:"guardian,omitempty"`
	DOB        string             `bson:"dob"`
	Gender     string             `bson:"gender"`
	BloodGroup string             `bson:"bloodGroup,omitempty"`
	Religion   string             `bson:"religion"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone,omitempty"`
	Address    string             `bson:"address"`
	State      string             `bson:"state"`
	Country    string             `bson:"country"`
	Class      string             `bson:"class"`
	Section    string             `bson:"section"`
	Group      string             `bson:"group,omitempty"`
	StudentNo  string             `bson:"studentNo"`
	RollNo     string             `bson:"rollNo,omitempty"`
	Picture    string             `bson:"picture,omitempty"`
	Username   string             `bson:"username"`
	Password   string             `bson:"password"`
	SchoolID   string             `bson:"schoolId"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d studentDoc) toDomain() *domain.Student {
	return &domain.Student{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Guardian:   d.Guardian,
		DOB:        d.DOB,
		Gender:     d.Gender,
		BloodGroup: d.BloodGroup,
		Religion:   d.Religion,
		Email:      d.Email,
		Phone:      d.Phone,
		Address:    d.Address,
		State:      d.State,
		Country:    d.Country,
		Class:      d.Class,
		Section:    d.Section,
		Group:      d.Group,
		StudentNo:  d.StudentNo,
		RollNo:     d.RollNo,
		Picture:    d.Picture,
		Username:   d.Username,
		Password:   d.Password,
		SchoolID:   d.SchoolID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func studentToDoc(s *domain.Student) studentDoc {
	return studentDoc{
		Name:       s.Name,
		Guardian:   s.Guardian,
		DOB:        s.DOB,
		Gender:     s.Gender,
		BloodGroup: s.BloodGroup,
		Religion:   s.Religion,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		State:      s.State,
		Country:    s.Country,
		Class:      s.Class,
		Section:    s.Section,
		Group:      s.Group,
		StudentNo:  s.StudentNo,
		RollNo:     s.RollNo,
		Picture:    s.Picture,
		Username:   s.Username,
		Password:   s.Password,
		SchoolID:   s.SchoolID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, studentToDoc(student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStudentEmailTaken
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}

	created := *student
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc studentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *StudentRepository) IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
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
		return false, fmt.Errorf("count students by email: %w", err)
	}
	return n > 0, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(student.ID)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, studentToDoc(student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStudentEmailTaken
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrStudentNotFound
	}
	return student, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) List(ctx context.Context, filter ports.StudentFilter, opts ports.PageOptions) ([]*domain.Student, int64, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = filter.Name
	}
	if filter.Class != "" {
		query["class"] = filter.Class
	}
	if filter.Section != "" {
		query["section"] = filter.Section
	}
	if filter.Group != "" {
		query["group"] = filter.Group
	}
	if filter.SchoolID != "" {
		query["schoolId"] = filter.SchoolID
	}

	docs, total, err := findPage[studentDoc](ctx, r.coll, query, opts)
	if err != nil {
		return nil, 0, err
	}

	students := make([]*domain.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, d.toDomain())
	}
	return students, total, nil
}

// EnsureIndexes creates the unique email index plus tenant and placement
// lookup indexes.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: indexUnique(),
		},
		{Keys: bson.D{{Key: "schoolId", Value: 1}}},
		{Keys: bson.D{{Key: "class", Value: 1}, {Key: "section", Value: 1}}},
	})
	return err
}
