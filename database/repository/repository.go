package repository

import (
	"fmt"

	"studybuddy/database/repository/memory"
	schedulerRepo "studybuddy/database/repository/scheduler"
	tutorRepo "studybuddy/database/repository/tutor"
	userRepo "studybuddy/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type (
	UserRepository      = userRepo.UserRepository
	TutorRepository     = tutorRepo.TutorRepository
	SchedulerRepository = schedulerRepo.SchedulerRepository
)

var (
	NewMongoUserRepo      = userRepo.NewMongoUserRepo
	NewMongoTutorRepo     = tutorRepo.NewMongoTutorRepo
	NewMongoSchedulerRepo = schedulerRepo.NewMongoSchedulerRepo
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Repositories is the storage backend the services run on.
type Repositories struct {
	Users     UserRepository
	Tutors    TutorRepository
	Scheduler SchedulerRepository
}

func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:     NewMongoUserRepo(db),
		Tutors:    NewMongoTutorRepo(db),
		Scheduler: NewMongoSchedulerRepo(db),
	}
}

func NewMemoryRepositories() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Users:     store.Users(),
		Tutors:    store.Tutors(),
		Scheduler: store.Scheduler(),
	}
}

// Open picks the backend for driver. db is only used by the mongo driver.
func Open(driver string, db *mongo.Database) (*Repositories, error) {
	switch driver {
	case DriverMongo:
		if db == nil {
			return nil, fmt.Errorf("mongo driver selected without a database")
		}
		return NewMongoRepositories(db), nil
	case DriverMemory:
		return NewMemoryRepositories(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
