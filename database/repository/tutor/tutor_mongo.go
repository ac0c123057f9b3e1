package tutorRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"studybuddy/models"
	"studybuddy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTutorRepo implements TutorRepository using MongoDB.
type MongoTutorRepo struct {
	coll *mongo.Collection
}

// NewMongoTutorRepo creates a new instance of TutorRepository using MongoDB.
func NewMongoTutorRepo(db *mongo.Database) TutorRepository {
	repo := &MongoTutorRepo{coll: db.Collection("tutors")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("tutorRepo: %v", err)
	}
	return repo
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoTutorRepo) Create(ctx context.Context, tutor *models.Tutor) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tutor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("tutor profile for user %s already exists: %w", tutor.UserID, utils.ErrConflict)
		}
		return fmt.Errorf("failed to create tutor: %w", err)
	}
	return nil
}

func (r *MongoTutorRepo) findOne(ctx context.Context, filter bson.M, label string) (*models.Tutor, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var tutor models.Tutor
	if err := r.coll.FindOne(ctx, filter).Decode(&tutor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("tutor %s: %w", label, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch tutor %s: %w", label, err)
	}
	return &tutor, nil
}

func (r *MongoTutorRepo) GetByID(ctx context.Context, id string) (*models.Tutor, error) {
	return r.findOne(ctx, bson.M{"id": id}, id)
}

func (r *MongoTutorRepo) GetByUserID(ctx context.Context, userID string) (*models.Tutor, error) {
	return r.findOne(ctx, bson.M{"userId": userID}, "of user "+userID)
}

func (r *MongoTutorRepo) Search(ctx context.Context, criteria models.TutorSearchCriteria) ([]models.Tutor, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if criteria.Module != "" {
		filter["modules"] = criteria.Module
	}
	if q := strings.TrimSpace(criteria.Query); q != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"topics": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tutors: %w", err)
	}
	defer cursor.Close(ctx)

	tutors := []models.Tutor{}
	if err := cursor.All(ctx, &tutors); err != nil {
		return nil, fmt.Errorf("failed to decode tutors: %w", err)
	}
	return tutors, nil
}

func (r *MongoTutorRepo) UpdateProfile(ctx context.Context, userID string, update models.TutorUpdate) (*models.Tutor, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Modules != nil {
		set["modules"] = *update.Modules
	}
	if update.Topics != nil {
		set["topics"] = *update.Topics
	}
	if update.HourlyRate != nil {
		set["hourlyRate"] = *update.HourlyRate
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Availability != nil {
		set["availability"] = *update.Availability
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var tutor models.Tutor
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set}, opts).Decode(&tutor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("tutor of user %s: %w", userID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update tutor of user %s: %w", userID, err)
	}
	return &tutor, nil
}

func (r *MongoTutorRepo) PruneExpiredSlots(ctx context.Context, before string) (int64, error) {
	ctx, cancel := newContext(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"availability.date": bson.M{"$lt": before}}
	update := bson.M{"$pull": bson.M{"availability": bson.M{"date": bson.M{"$lt": before}}}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to prune expired slots: %w", err)
	}
	return res.ModifiedCount, nil
}
