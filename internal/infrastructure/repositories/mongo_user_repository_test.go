package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kunalkv2000/reset-password/domain"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// setupTestMongo connects to MONGODB_TEST_URI and isolates each test in its
// own database. Tests are skipped when no server is configured.
func setupTestMongo(t *testing.T) *MongoUserRepository {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping mongo: %v", err)
	}

	db := client.Database("auth_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewMongoUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes error: %v", err)
	}
	return repo
}

func TestMongoUserRepository_Lifecycle(t *testing.T) {
	repo := setupTestMongo(t)
	ctx := context.Background()

	user := newTestUser("dana@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	if err := repo.Create(ctx, newTestUser("dana@example.com")); err != domain.ErrUserAlreadyExists {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	byEmail, err := repo.FindByEmail(ctx, "dana@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected id %q, got %q", user.ID, byEmail.ID)
	}

	byEmail.SetOTP(domain.OTPKindReset, "654321", time.Now().Add(15*time.Minute))
	if err := repo.Update(ctx, byEmail); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if byID.ResetOTP != "654321" || byID.ResetOTPExpireAt == nil {
		t.Errorf("expected reset slot to be stored, got %q / %v", byID.ResetOTP, byID.ResetOTPExpireAt)
	}

	byID.ClearOTP(domain.OTPKindReset)
	if err := repo.Update(ctx, byID); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	cleared, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if cleared.ResetOTP != "" || cleared.ResetOTPExpireAt != nil {
		t.Errorf("expected cleared reset slot, got %q / %v", cleared.ResetOTP, cleared.ResetOTPExpireAt)
	}
}

func TestMongoUserRepository_NotFound(t *testing.T) {
	repo := setupTestMongo(t)
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &domain.User{ID: "missing"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
