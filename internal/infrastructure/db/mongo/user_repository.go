package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique email index the user invariants rely on.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	FullName        string             `bson:"full_name"`
	Gender          string             `bson:"gender"`
	Role            string             `bson:"role"`
	Status          string             `bson:"status"`
	Bio             string             `bson:"bio,omitempty"`
	Experience      string             `bson:"experience,omitempty"`
	Specialities    string             `bson:"specialities,omitempty"`
	Reason          string             `bson:"reason,omitempty"`
	ProfilePhotoURL string             `bson:"profile_photo_url,omitempty"`
	PasswordHash    string             `bson:"password_hash"`
	RefreshToken    string             `bson:"refresh_token,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func toDoc(u *domain.User) mongoUser {
	return mongoUser{
		Email:           u.Email,
		FullName:        u.FullName,
		Gender:          u.Gender,
		Role:            string(u.Role),
		Status:          string(u.Status),
		Bio:             u.Bio,
		Experience:      u.Experience,
		Specialities:    u.Specialities,
		Reason:          u.Reason,
		ProfilePhotoURL: u.ProfilePhotoURL,
		PasswordHash:    u.PasswordHash,
		RefreshToken:    u.RefreshToken,
		CreatedAt:       u.CreatedAt.Unix(),
		UpdatedAt:       u.UpdatedAt.Unix(),
	}
}

func toDomain(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:              mu.ID.Hex(),
		Email:           mu.Email,
		FullName:        mu.FullName,
		Gender:          mu.Gender,
		Role:            domain.Role(mu.Role),
		Status:          domain.Status(mu.Status),
		Bio:             mu.Bio,
		Experience:      mu.Experience,
		Specialities:    mu.Specialities,
		Reason:          mu.Reason,
		ProfilePhotoURL: mu.ProfilePhotoURL,
		PasswordHash:    mu.PasswordHash,
		RefreshToken:    mu.RefreshToken,
		CreatedAt:       unixToTime(mu.CreatedAt),
		UpdatedAt:       unixToTime(mu.UpdatedAt),
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.InsertOne(ctx, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected inserted id %T", res.InsertedID)
	}
	return r.FindByID(ctx, id.Hex())
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return toDomain(&mu), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return toDomain(&mu), nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *toDomain(&mu))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	update := bson.M{
		"$set": bson.M{"refresh_token": token, "updated_at": time.Now().UTC().Unix()},
	}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC().Unix()},
		}
	}
	return r.updateByID(ctx, id, update)
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC().Unix()},
	})
}

func (r *MongoUserRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC().Unix()},
	})
}

// updateByID applies a single-document update. Mongo's atomic document
// update is the only consistency guarantee the service relies on.
func (r *MongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
