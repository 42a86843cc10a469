package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LLMCredential{},
		&models.Conversation{},
		&models.Dialog{},
		&models.DialogSource{},
		&models.Message{},
		&models.MessageFile{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser registers a user and returns it
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user, err := services.RegisterUser(db, username, username+"@example.com", "test-password")
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

// createTestConversation creates a conversation owned by userID
func createTestConversation(t *testing.T, db *gorm.DB, userID uint, title string) *services.ConversationView {
	conv, err := services.CreateConversation(db, userID, title, "")
	if err != nil {
		t.Fatalf("Failed to create test conversation: %v", err)
	}
	return conv
}

// createTestDialog creates a dialog with defaults under conversationID
func createTestDialog(t *testing.T, db *gorm.DB, userID, conversationID uint) *services.DialogView {
	dialog, err := services.CreateDialog(db, userID, conversationID, services.DialogCreateInput{})
	if err != nil {
		t.Fatalf("Failed to create test dialog: %v", err)
	}
	return dialog
}

type storedObject struct {
	data        []byte
	contentType string
}

// fakeObjectStore is an in-memory ObjectStore with switchable failure modes
type fakeObjectStore struct {
	objects    map[string]storedObject
	failPut    bool
	failDelete bool
	deletes    []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]storedObject{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if f.failPut {
		return errors.New("storage unavailable")
	}
	f.objects[path] = storedObject{data: data, contentType: contentType}
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	obj, ok := f.objects[path]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return obj.data, obj.contentType, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, path string) error {
	f.deletes = append(f.deletes, path)
	if f.failDelete {
		return errors.New("storage unavailable")
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeObjectStore) Ping(ctx context.Context) error {
	return nil
}
