package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique email index duplicate detection relies on.
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
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Email              string             `bson:"email"`
	PasswordHash       string             `bson:"password_hash"`
	Role               string             `bson:"role"`
	IsVerified         bool               `bson:"is_verified"`
	IsApproved         bool               `bson:"is_approved"`
	VerificationToken  string             `bson:"verification_token,omitempty"`
	VerificationExpiry int64              `bson:"verification_expiry,omitempty"`
	ResetTokenHash     string             `bson:"reset_token_hash,omitempty"`
	ResetExpiry        int64              `bson:"reset_expiry,omitempty"`
	RefreshToken       string             `bson:"refresh_token,omitempty"`
	CreatedAt          int64              `bson:"created_at"`
	UpdatedAt          int64              `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		IsVerified:   user.IsVerified,
		IsApproved:   user.IsApproved,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) SetVerificationToken(ctx context.Context, id, token string, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"verification_token":  token,
			"verification_expiry": expiry.Unix(),
			"updated_at":          time.Now().UTC().Unix(),
		},
	})
}

func (r *MongoUserRepository) ClearVerificationToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$unset": bson.M{"verification_token": "", "verification_expiry": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC().Unix()},
	})
}

// ConsumeVerificationToken performs the match, expiry check, verified-flag
// flip, and token clearing as one findOneAndUpdate, so a token can never be
// consumed twice even under concurrent requests.
func (r *MongoUserRepository) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"verification_token":  token,
		"verification_expiry": bson.M{"$gt": now.Unix()},
	}
	update := bson.M{
		"$set":   bson.M{"is_verified": true, "updated_at": now.Unix()},
		"$unset": bson.M{"verification_token": "", "verification_expiry": ""},
	}
	return r.consume(ctx, filter, update)
}

func (r *MongoUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_token_hash": tokenHash,
			"reset_expiry":     expiry.Unix(),
			"updated_at":       time.Now().UTC().Unix(),
		},
	})
}

func (r *MongoUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$unset": bson.M{"reset_token_hash": "", "reset_expiry": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC().Unix()},
	})
}

// ConsumeResetToken atomically installs the new password hash and clears the
// reset fields plus the stored refresh token for the matching account.
func (r *MongoUserRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"reset_token_hash": tokenHash,
		"reset_expiry":     bson.M{"$gt": now.Unix()},
	}
	update := bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": now.Unix()},
		"$unset": bson.M{"reset_token_hash": "", "reset_expiry": "", "refresh_token": ""},
	}
	return r.consume(ctx, filter, update)
}

func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC().Unix()}}
	if token == "" {
		update["$unset"] = bson.M{"refresh_token": ""}
	} else {
		update["$set"].(bson.M)["refresh_token"] = token
	}
	return r.updateByID(ctx, id, update)
}

func (r *MongoUserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC().Unix()},
		"$unset": bson.M{"refresh_token": ""},
	})
}

func (r *MongoUserRepository) SetApproved(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	update := bson.M{"$set": bson.M{"is_approved": true, "updated_at": time.Now().UTC().Unix()}}

	var mu mongoUser
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("approve user: %w", err)
	}
	return mu.toDomain(), nil
}

// List returns one page of accounts matching the filter, newest first, plus
// the total match count for pagination.
func (r *MongoUserRepository) List(ctx context.Context, filter ports.UserFilter, page, limit int) ([]*domain.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsApproved != nil {
		query["is_approved"] = *filter.IsApproved
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0, limit)
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *MongoUserRepository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	approved, err := r.coll.CountDocuments(ctx, bson.M{"role": domain.RoleAlumni, "is_approved": true})
	if err != nil {
		return nil, fmt.Errorf("count approved: %w", err)
	}
	pending, err := r.coll.CountDocuments(ctx, bson.M{
		"role": domain.RoleAlumni, "is_approved": false, "is_verified": true,
	})
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	return &domain.DashboardStats{
		TotalUsers:       total,
		ApprovedAlumni:   approved,
		PendingApprovals: pending,
	}, nil
}

func (r *MongoUserRepository) consume(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	var mu mongoUser
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return mu.toDomain(), nil
}

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

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                 mu.ID.Hex(),
		Email:              mu.Email,
		PasswordHash:       mu.PasswordHash,
		Role:               mu.Role,
		IsVerified:         mu.IsVerified,
		IsApproved:         mu.IsApproved,
		VerificationToken:  mu.VerificationToken,
		VerificationExpiry: unixToTime(mu.VerificationExpiry),
		ResetTokenHash:     mu.ResetTokenHash,
		ResetExpiry:        unixToTime(mu.ResetExpiry),
		RefreshToken:       mu.RefreshToken,
		CreatedAt:          unixToTime(mu.CreatedAt),
		UpdatedAt:          unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
