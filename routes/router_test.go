package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plumeblog/plume/models"
	"github.com/plumeblog/plume/services"
)

func TestMain(m *testing.M) {
	// Config is loaded once per process; pin it before the first request.
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_PATH", filepath.Join(os.TempDir(), "plume_gin_test.log"))
	// Point the cache at a closed port so responses are never served stale
	// from a real redis between test runs.
	os.Setenv("REDIS_PORT", "6399")
	// The limiter is keyed by client IP and httptest uses one IP for the
	// whole package; keep it out of the way.
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Post{}, &models.Comment{}))
	require.NoError(t, services.NewCategoryService(db).Seed())

	return SetupRouter(db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope mirrors utils.JSONResponse with raw data for per-test decoding.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func login(t *testing.T, r *gin.Engine, username string) models.User {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/users/login", gin.H{"username": username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	require.NotZero(t, data.User.ID)
	require.NotEmpty(t, data.Token)
	return data.User
}

func categoryID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var category models.Category
	require.NoError(t, db.Where("name = ?", name).First(&category).Error)
	return category.ID
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginCreatesAndFetches(t *testing.T) {
	r, _ := newTestRouter(t)

	alice := login(t, r, "alice")
	again := login(t, r, "alice")
	assert.Equal(t, alice.ID, again.ID)

	// Empty username is a validation error.
	w := doJSON(t, r, http.MethodPost, "/users/login", gin.H{"username": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With the token from login the profile resolves.
	lw := doJSON(t, r, http.MethodPost, "/users/login", gin.H{"username": "alice"})
	require.Equal(t, http.StatusOK, lw.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, lw).Data, &data))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePost_Validation(t *testing.T) {
	r, db := newTestRouter(t)
	alice := login(t, r, "alice")
	food := categoryID(t, db, "food")

	// Empty title.
	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "", "content": "c", "userId": alice.ID, "categoryId": food,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown user.
	w = doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "t", "content": "c", "userId": 9999, "categoryId": food,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown category.
	w = doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "t", "content": "c", "userId": alice.ID, "categoryId": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	r, db := newTestRouter(t)
	alice := login(t, r, "alice")
	bob := login(t, r, "bob")
	food := categoryID(t, db, "food")

	// Create.
	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "T", "content": "C", "userId": alice.ID, "categoryId": food,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	postID := created.Post.ID
	require.NotZero(t, postID)

	// Update by owner, with an unknown category: content/title change,
	// category stays.
	w = doJSON(t, r, http.MethodPut, "/posts/"+itoa(postID), gin.H{
		"content": "C2", "title": "T2", "userId": alice.ID, "categoryId": 9999,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	assert.Equal(t, "C2", updated.Post.Content)
	assert.Equal(t, "T2", updated.Post.Title)
	assert.Equal(t, food, updated.Post.CategoryID)

	// Update by a stranger is rejected.
	w = doJSON(t, r, http.MethodPut, "/posts/"+itoa(postID), gin.H{
		"content": "X", "userId": bob.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Comment on the post, then delete attempts.
	w = doJSON(t, r, http.MethodPost, "/comments/"+itoa(postID), gin.H{
		"content": "first!", "userId": bob.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/posts/"+itoa(postID), gin.H{"userId": bob.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/posts/"+itoa(postID), gin.H{"userId": alice.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Gone, along with its comments.
	w = doJSON(t, r, http.MethodGet, "/posts/"+itoa(postID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListPosts_Filters(t *testing.T) {
	r, db := newTestRouter(t)
	alice := login(t, r, "alice")
	bob := login(t, r, "bob")
	food := categoryID(t, db, "food")
	pets := categoryID(t, db, "pets")

	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "Hello World", "content": "hi", "userId": alice.ID, "categoryId": food,
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "Dogs", "content": "woof", "userId": bob.ID, "categoryId": pets,
	})
	require.Equal(t, http.StatusOK, w.Code)

	listTitles := func(path string) []string {
		w := doJSON(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var data struct {
			Items []models.Post `json:"items"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		titles := make([]string, 0, len(data.Items))
		for _, p := range data.Items {
			titles = append(titles, p.Title)
		}
		return titles
	}

	assert.ElementsMatch(t, []string{"Hello World", "Dogs"}, listTitles("/posts"))
	assert.Equal(t, []string{"Hello World"}, listTitles("/posts?categoryId="+itoa(food)))
	assert.Equal(t, []string{"Hello World"}, listTitles("/posts?search=hello"))
	assert.Equal(t, []string{"Dogs"}, listTitles("/posts?userId="+itoa(bob.ID)))
}

func TestCommentEndpoints(t *testing.T) {
	r, db := newTestRouter(t)
	alice := login(t, r, "alice")
	bob := login(t, r, "bob")
	food := categoryID(t, db, "food")

	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "T", "content": "C", "userId": alice.ID, "categoryId": food,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))

	// Missing content.
	w = doJSON(t, r, http.MethodPost, "/comments/"+itoa(created.Post.ID), gin.H{
		"content": "", "userId": bob.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown post.
	w = doJSON(t, r, http.MethodPost, "/comments/9999", gin.H{
		"content": "hi", "userId": bob.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create.
	w = doJSON(t, r, http.MethodPost, "/comments/"+itoa(created.Post.ID), gin.H{
		"content": "hi", "userId": bob.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cd struct {
		Comment models.Comment `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &cd))

	// Only the author may edit.
	w = doJSON(t, r, http.MethodPut, "/comments/"+itoa(cd.Comment.ID), gin.H{
		"content": "hijack", "userId": alice.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPut, "/comments/"+itoa(cd.Comment.ID), gin.H{
		"content": "edited", "userId": bob.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Only the author may delete.
	w = doJSON(t, r, http.MethodDelete, "/comments/"+itoa(cd.Comment.ID), gin.H{"userId": alice.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/comments/"+itoa(cd.Comment.ID), gin.H{"userId": bob.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
