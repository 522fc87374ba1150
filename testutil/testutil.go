package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/database"
	"github.com/camden-git/yearbookbackend/models"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// OpenTestDB opens a private, migrated in-memory database that lives until
// the test ends.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := unsafeName.ReplaceAllString(t.Name(), "_") + "_" + uuid.NewString()
	dsn := "file:" + name + "?mode=memory&cache=shared"

	db, err := database.Open(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateTestPerson inserts a person and returns it.
func CreateTestPerson(t *testing.T, db *gorm.DB, name string) models.Person {
	t.Helper()

	p := models.Person{Name: name, Major: "Undeclared", Year: 2025, ImageURL: "https://example.com/" + name + ".jpg"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test person: %v", err)
	}
	return p
}

// CreateTestComment inserts a comment with the given token and returns it.
func CreateTestComment(t *testing.T, db *gorm.DB, personID uint, text, token string) models.Comment {
	t.Helper()

	c := models.Comment{PersonID: personID, Text: text, EditToken: token}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return c
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		case []byte:
			raw = b
		default:
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Bearer returns an Authorization header map for token.
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
