package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"studybuddy/database/repository/memory"
	userRepo "studybuddy/database/repository/user"
	"studybuddy/models"
	"studybuddy/utils"

	"golang.org/x/crypto/bcrypt"
)

func newService() (*DefaultUserService, *memory.Store) {
	store := memory.NewStore()
	return &DefaultUserService{Repo: store.Users(), TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}, store
}

func TestRegister_StudentDefaultsAndHashes(t *testing.T) {
	svc, _ := newService()
	u, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Sam", Email: "Sam@Uni.test", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != models.RoleStudent {
		t.Fatalf("expected default role Student, got %q", u.Role)
	}
	if u.Email != "sam@uni.test" {
		t.Fatalf("expected lower-cased email, got %q", u.Email)
	}
	if u.PasswordHash == "pw" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw")) != nil {
		t.Fatal("password must be stored as a bcrypt hash")
	}
}

func TestRegister_TutorGetsProfile(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	u, err := svc.Register(ctx, models.RegisterRequest{Name: "Ada", Email: "ada@uni.test", Password: "pw", Role: models.RoleTutor})
	if err != nil {
		t.Fatal(err)
	}

	profile, err := store.Tutors().GetByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("expected tutor profile, got %v", err)
	}
	if profile.Bio != models.DefaultTutorBio || profile.Name != "Ada" || len(profile.Availability) != 0 {
		t.Fatalf("unexpected default profile %+v", profile)
	}
}

func TestRegister_Errors(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, models.RegisterRequest{Name: "Sam", Email: "sam@uni.test", Password: "pw"}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"duplicate", models.RegisterRequest{Name: "Other", Email: "sam@uni.test", Password: "pw"}},
		{"missing password", models.RegisterRequest{Name: "Sam", Email: "x@uni.test"}},
		{"bad email", models.RegisterRequest{Name: "Sam", Email: "nope", Password: "pw"}},
		{"bad role", models.RegisterRequest{Name: "Sam", Email: "y@uni.test", Password: "pw", Role: "Admin"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.req); !errors.Is(err, utils.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

// countingRepo records Create calls and can hide existing users from the
// email lookup, which is what a concurrent registration looks like.
type countingRepo struct {
	userRepo.UserRepository
	creates    int
	hideLookup bool
}

func (r *countingRepo) Create(ctx context.Context, u *models.User, profile *models.Tutor) error {
	r.creates++
	return r.UserRepository.Create(ctx, u, profile)
}

func (r *countingRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.hideLookup {
		return nil, utils.ErrNotFound
	}
	return r.UserRepository.GetByEmail(ctx, email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{UserRepository: memory.NewStore().Users()}
	svc := &DefaultUserService{Repo: repo, TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}

	if _, err := svc.Register(ctx, models.RegisterRequest{Name: "Sam", Email: "sam@uni.test", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Other", Email: "SAM@uni.test", Password: "pw"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("a known email must be rejected before Create, got %d creates", repo.creates)
	}

	repo.hideLookup = true
	_, err = svc.Register(ctx, models.RegisterRequest{Name: "Other", Email: "sam@uni.test", Password: "pw"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected a conflicting Create to map to ErrUserExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	u, err := svc.Register(ctx, models.RegisterRequest{Name: "Sam", Email: "sam@uni.test", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	for _, username := range []string{"Sam", "sam@uni.test", "SAM@uni.test"} {
		resp, err := svc.Login(ctx, models.LoginRequest{Username: username, Password: "secret"})
		if err != nil {
			t.Fatalf("login as %q failed: %v", username, err)
		}
		if resp.UserID != u.ID || resp.Role != models.RoleStudent || resp.Token == "" {
			t.Fatalf("unexpected login response %+v", resp)
		}
		claims, err := utils.ExtractClaims(resp.Token)
		if err != nil || claims.UserID != u.ID {
			t.Fatalf("token must carry the user id, got %+v (%v)", claims, err)
		}
	}

	if _, err := svc.Login(ctx, models.LoginRequest{Username: "Sam", Password: "wrong"}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "secret"}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}
