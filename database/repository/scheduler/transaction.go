package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// withTransaction runs fn in one multi-document transaction. The driver
// retries fn on transient write conflicts, so a losing concurrent consumer of
// a slot re-reads the tutor and fails with ErrConflict.
func (repo *MongoSchedulerRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// saveAvailability writes the tutor's whole list back, guarded on the
// consumed slot still being present.
func (repo *MongoSchedulerRepo) saveAvailability(sc mongo.SessionContext, tutor *models.Tutor, consumed models.Slot, now time.Time) error {
	filter := bson.M{"id": tutor.ID}
	if consumed.ID != "" {
		filter["availability.id"] = consumed.ID
	} else {
		filter["availability"] = bson.M{"$elemMatch": bson.M{"date": consumed.Date, "time": consumed.Time}}
	}
	update := bson.M{"$set": bson.M{"availability": tutor.Availability, "updatedAt": now}}

	res, err := repo.tutorColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("update availability of tutor %s failed: %w", tutor.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("slot already taken on tutor %s: %w", tutor.ID, utils.ErrConflict)
	}
	return nil
}

func (repo *MongoSchedulerRepo) CreateBooking(ctx context.Context, booking *models.Booking, ref models.SlotRef) (*models.Booking, error) {
	err := repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		tutor, err := repo.findTutor(sc, booking.TutorID)
		if err != nil {
			return err
		}
		slot, err := ConsumeSlot(tutor, ref)
		if err != nil {
			return err
		}
		booking.Date, booking.Time = slot.Date, slot.Time

		if err := repo.saveAvailability(sc, tutor, slot, booking.CreatedAt); err != nil {
			return err
		}
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("booking transaction failed: %w", err)
	}
	return booking, nil
}

func (repo *MongoSchedulerRepo) CancelBooking(ctx context.Context, bookingID, restoredSlotID string) (*models.Booking, error) {
	var cancelled *models.Booking
	err := repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		booking, err := repo.findBooking(sc, bookingID)
		if err != nil {
			return err
		}
		if err := Reschedulable(booking); err != nil {
			return err
		}

		// $push with $sort keeps the stored list ordered by date, then time.
		restored := restoredSlot(booking.Date, booking.Time, restoredSlotID)
		update := bson.M{
			"$push": bson.M{
				"availability": bson.M{
					"$each": bson.A{restored},
					"$sort": bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
				},
			},
			"$set": bson.M{"updatedAt": time.Now()},
		}
		res, err := repo.tutorColl.UpdateOne(sc, bson.M{"id": booking.TutorID}, update)
		if err != nil {
			return fmt.Errorf("restore slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			utils.GetLogger().Warn("cancelling booking of a missing tutor; no slot restored",
				zap.String("bookingID", bookingID), zap.String("tutorID", booking.TutorID))
		}

		if _, err := repo.bookingColl.DeleteOne(sc, bson.M{"id": bookingID}); err != nil {
			return fmt.Errorf("delete booking failed: %w", err)
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel transaction failed: %w", err)
	}
	return cancelled, nil
}

func (repo *MongoSchedulerRepo) RescheduleBooking(ctx context.Context, bookingID string, target models.SlotRef, restoredSlotID string, now time.Time) (*models.Booking, error) {
	var updated *models.Booking
	err := repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		booking, err := repo.findBooking(sc, bookingID)
		if err != nil {
			return err
		}
		if err := Reschedulable(booking); err != nil {
			return err
		}
		tutor, err := repo.findTutor(sc, booking.TutorID)
		if err != nil {
			return err
		}

		slot, err := ConsumeSlot(tutor, target)
		if err != nil {
			return err
		}
		RestoreSlot(tutor, booking.Date, booking.Time, restoredSlotID)
		if err := repo.saveAvailability(sc, tutor, slot, now); err != nil {
			return err
		}

		ApplyReschedule(booking, slot, now)
		update := bson.M{"$set": bson.M{
			"date":      booking.Date,
			"time":      booking.Time,
			"status":    booking.Status,
			"updatedAt": booking.UpdatedAt,
		}}
		if _, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": bookingID}, update); err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reschedule transaction failed: %w", err)
	}
	return updated, nil
}
