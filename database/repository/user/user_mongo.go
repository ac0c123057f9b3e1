package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll      *mongo.Collection
	tutorColl *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	repo := &MongoUserRepo{
		coll:      db.Collection("users"),
		tutorColl: db.Collection("tutors"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("userRepo: %v", err)
	}
	return repo
}

// Create inserts the user and optional tutor profile in one transaction so a
// tutor account never exists without its profile.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User, profile *models.Tutor) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.coll.InsertOne(sc, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("user with email %s already exists: %w", user.Email, utils.ErrConflict)
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if profile != nil {
			if _, err := r.tutorColl.InsertOne(sc, profile); err != nil {
				return nil, fmt.Errorf("failed to create tutor profile: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M, label string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", label, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", label, err)
	}
	return &user, nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *MongoUserRepo) GetByLogin(ctx context.Context, username string) (*models.User, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"name": username},
			{"email": username},
		},
	}
	return r.findOne(ctx, filter, username)
}
