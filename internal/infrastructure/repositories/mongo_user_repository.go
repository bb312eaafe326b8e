package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersCollection is the collection holding user documents
const UsersCollection = "users"

// MongoUser is the stored document shape
type MongoUser struct {
	ID                string     `bson:"_id"`
	Name              string     `bson:"name"`
	Email             string     `bson:"email"`
	Password          string     `bson:"password"`
	IsAccountVerified bool       `bson:"isAccountVerified"`
	VerifyOTP         string     `bson:"verifyOtp"`
	VerifyOTPExpireAt *time.Time `bson:"verifyOtpExpireAt"`
	ResetOTP          string     `bson:"resetOtp"`
	ResetOTPExpireAt  *time.Time `bson:"resetOtpExpireAt"`
	CreatedAt         time.Time  `bson:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt"`
}

// MongoUserRepository implements domain.UserRepository on a MongoDB collection
type MongoUserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoUserRepository creates a new MongoDB backed user repository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll: db.Collection(UsersCollection),
		now:  time.Now,
	}
}

var _ domain.UserRepository = (*MongoUserRepository)(nil)

// EnsureIndexes creates the unique email index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return oops.Code("USER_REPO_MIGRATE").Wrap(err)
	}
	return nil
}

// Create implements domain.UserRepository
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toMongoUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return oops.Code("USER_REPO_CREATE").With("email", user.Email).Wrap(err)
	}
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByID implements domain.UserRepository
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc MongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, oops.Code("USER_REPO_FIND").Wrap(err)
	}
	return doc.toDomain(), nil
}

// Update implements domain.UserRepository
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = r.now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: user.ID}}, toMongoUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return oops.Code("USER_REPO_UPDATE").With("user_id", user.ID).Wrap(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func toMongoUser(u *domain.User) *MongoUser {
	return &MongoUser{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Password:          u.PasswordHash,
		IsAccountVerified: u.IsAccountVerified,
		VerifyOTP:         u.VerifyOTP,
		VerifyOTPExpireAt: u.VerifyOTPExpireAt,
		ResetOTP:          u.ResetOTP,
		ResetOTPExpireAt:  u.ResetOTPExpireAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *MongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                m.ID,
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.Password,
		IsAccountVerified: m.IsAccountVerified,
		VerifyOTP:         m.VerifyOTP,
		VerifyOTPExpireAt: m.VerifyOTPExpireAt,
		ResetOTP:          m.ResetOTP,
		ResetOTPExpireAt:  m.ResetOTPExpireAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
