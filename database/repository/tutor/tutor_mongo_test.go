package tutorRepo

import (
	"context"
	"errors"
	"testing"

	"studybuddy/models"
	"studybuddy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const tutorsNS = "studybuddy.tutors"

func newMockRepo(mt *mtest.T) *MongoTutorRepo {
	return &MongoTutorRepo{coll: mt.DB.Collection("tutors")}
}

func TestMongoSearch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("module and escaped query filter", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tutorsNS, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "t1"}, {Key: "name", Value: "Ada"}},
			bson.D{{Key: "id", Value: "t2"}, {Key: "name", Value: "Bob"}},
		))

		tutors, err := repo.Search(context.Background(), models.TutorSearchCriteria{Module: "CS101", Query: " c++ "})
		if err != nil {
			mt.Fatal(err)
		}
		if len(tutors) != 2 || tutors[0].ID != "t1" {
			mt.Fatalf("expected both tutors decoded in order, got %+v", tutors)
		}

		cmd := mt.GetStartedEvent().Command
		if got, _ := cmd.Lookup("filter", "modules").StringValueOK(); got != "CS101" {
			mt.Fatalf("expected module filter, got %q", got)
		}
		if got, _ := cmd.Lookup("filter", "$or", "0", "name", "$regex").StringValueOK(); got != `c\+\+` {
			mt.Fatalf("expected quoted regex, got %q", got)
		}
		if got, _ := cmd.Lookup("filter", "$or", "1", "topics", "$options").StringValueOK(); got != "i" {
			mt.Fatalf("expected case-insensitive topic match, got %q", got)
		}
		if order, ok := cmd.Lookup("sort", "name").AsInt64OK(); !ok || order != 1 {
			mt.Fatalf("expected ascending sort by name, got %v", cmd.Lookup("sort"))
		}
	})

	mt.Run("empty result is a non-nil slice", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tutorsNS, mtest.FirstBatch))

		tutors, err := repo.Search(context.Background(), models.TutorSearchCriteria{})
		if err != nil || tutors == nil || len(tutors) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v (%v)", tutors, err)
		}
	})
}

func TestMongoUpdateProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets only supplied fields", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bson.D{{Key: "id", Value: "t1"}, {Key: "userId", Value: "u1"}, {Key: "bio", Value: "hi"}}},
		))

		bio := "hi"
		updated, err := repo.UpdateProfile(context.Background(), "u1", models.TutorUpdate{Bio: &bio})
		if err != nil || updated.Bio != "hi" {
			mt.Fatalf("expected updated profile, got %+v (%v)", updated, err)
		}

		cmd := mt.GetStartedEvent().Command
		if got, _ := cmd.Lookup("update", "$set", "bio").StringValueOK(); got != "hi" {
			mt.Fatalf("expected bio in $set, got %q", got)
		}
		if _, ok := cmd.Lookup("update", "$set", "name").StringValueOK(); ok {
			mt.Fatal("absent fields must not be written")
		}
	})

	mt.Run("unknown user is not found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		bio := "hi"
		if _, err := repo.UpdateProfile(context.Background(), "ghost", models.TutorUpdate{Bio: &bio}); !errors.Is(err, utils.ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMongoPruneExpiredSlots(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pulls slots dated before the cutoff", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 2}))

		changed, err := repo.PruneExpiredSlots(context.Background(), "2025-01-01")
		if err != nil || changed != 2 {
			mt.Fatalf("expected two profiles changed, got %d (%v)", changed, err)
		}

		cmd := mt.GetStartedEvent().Command
		if got, _ := cmd.Lookup("updates", "0", "u", "$pull", "availability", "date", "$lt").StringValueOK(); got != "2025-01-01" {
			mt.Fatalf("expected $pull of dates before the cutoff, got %q", got)
		}
		if multi, _ := cmd.Lookup("updates", "0", "multi").BooleanOK(); !multi {
			mt.Fatal("expected a multi-document update")
		}
	})
}
