package handlers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// formRequest builds a multipart form request with optional file parts
func formRequest(t *testing.T, method, url string, fields map[string]string, files map[string][]byte, token string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close form writer: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// TestConversationLifecycle tests create, list, update, and delete over HTTP
func TestConversationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, &echoInvoker{})
	token := registerUser(t, app, "alice")

	resp, err := app.Test(formRequest(t, "POST", "/api/conversations", map[string]string{
		"title": "Paper review",
	}, nil, token))
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 creating conversation, got %d", resp.StatusCode)
	}
	created := decodeJSON(t, resp)
	if created["title"] != "Paper review" {
		t.Errorf("Expected created title, got %v", created["title"])
	}

	resp, err = app.Test(jsonRequest(t, "GET", "/api/conversations", nil, token))
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	var list []map[string]interface{}
	decodeJSONList(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("Expected 1 conversation, got %d", len(list))
	}

	id := int(created["id"].(float64))
	resp, err = app.Test(formRequest(t, "PUT", fmt.Sprintf("/api/conversations/%d", id), map[string]string{
		"title": "Renamed",
	}, nil, token))
	if err != nil {
		t.Fatalf("Update request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected 200 updating conversation, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(t, "DELETE", fmt.Sprintf("/api/conversations/%d", id), nil, token))
	if err != nil {
		t.Fatalf("Delete request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected 200 deleting conversation, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(t, "GET", "/api/conversations", nil, token))
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	list = nil
	decodeJSONList(t, resp, &list)
	if len(list) != 0 {
		t.Errorf("Expected empty list after delete, got %d", len(list))
	}
}

// TestConversationForeignAccess tests that another user's conversation reads
// as 404
func TestConversationForeignAccess(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, &echoInvoker{})
	aliceToken := registerUser(t, app, "alice")
	bobToken := registerUser(t, app, "bob")

	resp, err := app.Test(formRequest(t, "POST", "/api/conversations", map[string]string{
		"title": "Private",
	}, nil, aliceToken))
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	created := decodeJSON(t, resp)
	id := int(created["id"].(float64))

	resp, err = app.Test(jsonRequest(t, "DELETE", fmt.Sprintf("/api/conversations/%d", id), nil, bobToken))
	if err != nil {
		t.Fatalf("Delete request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected 404 for foreign conversation, got %d", resp.StatusCode)
	}
}
