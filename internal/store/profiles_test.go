package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/model"
)

func newProfile(userID, username string) model.Profile {
	return model.Profile{
		UserID:               userID,
		Email:                "ana@example.com",
		FirstName:            "Ana",
		LastName:             "Novak",
		Birthdate:            "1990-04-01",
		Username:             username,
		Interests:            []string{"Minimalism", "Vintage Finds"},
		NotificationsEnabled: true,
	}
}

func TestCreateAndGetProfile(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")

	missing, err := GetProfile(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if missing != nil {
		t.Fatal("expected no profile before onboarding")
	}

	p, err := CreateProfile(ctx, database, newProfile(user.ID, "ana"))
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.Username != "ana" || !p.NotificationsEnabled {
		t.Errorf("unexpected profile %+v", p)
	}
	if !reflect.DeepEqual(p.Interests, []string{"Minimalism", "Vintage Finds"}) {
		t.Errorf("unexpected interests %v", p.Interests)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestCreateProfileOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	CreateProfile(ctx, database, newProfile(user.ID, "ana"))

	_, err := CreateProfile(ctx, database, newProfile(user.ID, "ana2"))
	if !errors.Is(err, ErrProfileExists) {
		t.Errorf("expected ErrProfileExists, got %v", err)
	}
}

func TestUsernameUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateUser(ctx, database, "a@example.com", "hash")
	b, _ := CreateUser(ctx, database, "b@example.com", "hash")
	CreateProfile(ctx, database, newProfile(a.ID, "Style"))

	ok, err := UsernameAvailable(ctx, database, "style")
	if err != nil {
		t.Fatalf("UsernameAvailable: %v", err)
	}
	if ok {
		t.Error("expected username to be taken (case-insensitive)")
	}

	_, err = CreateProfile(ctx, database, newProfile(b.ID, "STYLE"))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateProfilePicture(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	CreateProfile(ctx, database, newProfile(user.ID, "ana"))

	if err := UpdateProfilePicture(ctx, database, user.ID, "/api/blobs/p.jpg"); err != nil {
		t.Fatalf("UpdateProfilePicture: %v", err)
	}
	p, _ := GetProfile(ctx, database, user.ID)
	if p.ProfilePictureURL != "/api/blobs/p.jpg" {
		t.Errorf("unexpected picture %q", p.ProfilePictureURL)
	}
}
