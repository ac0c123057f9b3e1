package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	tutorColl   *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(db *mongo.Database) SchedulerRepository {
	repo := &MongoSchedulerRepo{
		tutorColl:   db.Collection("tutors"),
		bookingColl: db.Collection("bookings"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("schedulerRepo: failed to create indexes: %v", err)
	}
	return repo
}

func (repo *MongoSchedulerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.bookingColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}},
		{Keys: bson.D{{Key: "tutorId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by its id.
func (repo *MongoSchedulerRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return repo.findBooking(ctx, bookingID)
}

func (repo *MongoSchedulerRepo) findBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoSchedulerRepo) findTutor(ctx context.Context, tutorID string) (*models.Tutor, error) {
	var tutor models.Tutor
	if err := repo.tutorColl.FindOne(ctx, bson.M{"id": tutorID}).Decode(&tutor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("tutor %s: %w", tutorID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching tutor %s: %w", tutorID, err)
	}
	return &tutor, nil
}

// ListByStudent returns every booking of a student, soonest first.
func (repo *MongoSchedulerRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, bson.M{"studentId": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings for student %s: %w", studentID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// CompleteBooking is a single-document conditional update and needs no transaction.
func (repo *MongoSchedulerRepo) CompleteBooking(ctx context.Context, bookingID, date, tm string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     bookingID,
		"date":   date,
		"time":   tm,
		"status": bson.M{"$ne": models.BookingCompleted},
	}
	update := bson.M{"$set": bson.M{"status": models.BookingCompleted, "updatedAt": now}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error completing booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}
