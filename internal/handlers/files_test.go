package handlers_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/researchagent/backend/internal/models"
)

// TestFileRoundTrip tests that an uploaded source file is served back
// through the files route
func TestFileRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, &echoInvoker{})
	token := registerUser(t, app, "alice")
	_, dialogID := createConversationAndDialog(t, app, token)

	resp, err := app.Test(formRequest(t, "POST", fmt.Sprintf("/api/dialogs/%d/sources", dialogID), nil, map[string][]byte{
		"notes.txt": []byte("important findings"),
	}, token))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 uploading file, got %d", resp.StatusCode)
	}

	var source models.DialogSource
	if err := db.Where("dialog_id = ?", dialogID).First(&source).Error; err != nil {
		t.Fatalf("Failed to load source row: %v", err)
	}

	resp, err = app.Test(jsonRequest(t, "GET", source.FilePath, nil, ""))
	if err != nil {
		t.Fatalf("File request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 fetching file, got %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read file body: %v", err)
	}
	if string(data) != "important findings" {
		t.Errorf("Expected file content to round trip, got %q", data)
	}
}

// TestFileNotFound tests the missing-object path
func TestFileNotFound(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, &echoInvoker{})

	resp, err := app.Test(jsonRequest(t, "GET", "/api/files/sources/1/1/nope.pdf", nil, ""))
	if err != nil {
		t.Fatalf("File request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected 404 for missing object, got %d", resp.StatusCode)
	}
}
