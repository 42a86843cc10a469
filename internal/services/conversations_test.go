package services_test

import (
	"errors"
	"testing"

	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/types"
)

// TestCreateConversationDefaultTitle tests the default title
func TestCreateConversationDefaultTitle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	conv, err := services.CreateConversation(db, user.ID, "", "")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if conv.Title != "New Conversation" {
		t.Errorf("Expected default title, got %q", conv.Title)
	}
}

// TestListConversationsOwnership tests that listing only returns the
// caller's conversations
func TestListConversationsOwnership(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	createTestConversation(t, db, alice.ID, "Alice's research")
	createTestConversation(t, db, bob.ID, "Bob's research")

	convs, err := services.ListConversations(db, alice.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("Expected 1 conversation for alice, got %d", len(convs))
	}
	if convs[0].Title != "Alice's research" {
		t.Errorf("Expected alice's conversation, got %q", convs[0].Title)
	}
}

// TestUpdateConversationNotOwned tests that a foreign conversation reads as
// not found
func TestUpdateConversationNotOwned(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	conv := createTestConversation(t, db, alice.ID, "Private")

	_, err := services.UpdateConversation(db, bob.ID, conv.ID, "Hijacked", "")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign conversation, got %v", err)
	}
}

// TestDeleteConversationCascade tests that deletion removes dialogs,
// messages, and sources underneath
func TestDeleteConversationCascade(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	conv := createTestConversation(t, db, user.ID, "Research")
	dialog := createTestDialog(t, db, user.ID, conv.ID)

	if _, err := services.CreateMessage(db, user.ID, dialog.ID, services.MessageCreateInput{
		Role: "user", Content: "Hello",
	}); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := services.AddLinkSource(db, user.ID, dialog.ID, "url", "https://example.com/paper"); err != nil {
		t.Fatalf("AddLinkSource failed: %v", err)
	}

	if err := services.DeleteConversation(db, user.ID, conv.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}

	var dialogs, messages, sources int64
	db.Model(&models.Dialog{}).Where("conversation_id = ?", conv.ID).Count(&dialogs)
	db.Model(&models.Message{}).Where("dialog_id = ?", dialog.ID).Count(&messages)
	db.Model(&models.DialogSource{}).Where("dialog_id = ?", dialog.ID).Count(&sources)

	if dialogs != 0 || messages != 0 || sources != 0 {
		t.Errorf("Expected cascade delete, left dialogs=%d messages=%d sources=%d", dialogs, messages, sources)
	}
}

// TestDeleteConversationNotOwned tests the ownership gate on delete
func TestDeleteConversationNotOwned(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	conv := createTestConversation(t, db, alice.ID, "Private")

	if err := services.DeleteConversation(db, bob.ID, conv.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	var count int64
	db.Model(&models.Conversation{}).Where("id = ?", conv.ID).Count(&count)
	if count != 1 {
		t.Error("Expected conversation to survive a foreign delete attempt")
	}
}
