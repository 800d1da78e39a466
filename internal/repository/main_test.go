package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the full
// schema applied. SQLite keeps these tests hermetic; the queries stay
// portable to the Postgres used in deployments.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	return db
}

var fixtureSeq int

// createTestProfile creates a user with its profile and returns the profile.
func createTestProfile(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	fixtureSeq++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", fixtureSeq),
		Password: "hashed-password",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.Profile{UserID: user.ID}
	require.NoError(t, db.Create(profile).Error)
	profile.User = *user
	return profile
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	fixtureSeq++

	category := &models.Category{Name: fmt.Sprintf("Category %d", fixtureSeq)}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.Profile, category *models.Category) *models.Post {
	t.Helper()
	fixtureSeq++

	post := &models.Post{
		AuthorID:      author.ID,
		Title:         fmt.Sprintf("Post %d", fixtureSeq),
		Slug:          fmt.Sprintf("post-%d", fixtureSeq),
		ReadTime:      5,
		Content:       "body",
		Status:        true,
		CategoryID:    &category.ID,
		PublishedDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, postID uint, replyTo *uint) *models.Comment {
	t.Helper()
	fixtureSeq++

	comment := &models.Comment{
		PostID:    postID,
		ReplyToID: replyTo,
		Name:      "Reader",
		Email:     fmt.Sprintf("reader%d@example.com", fixtureSeq),
		Message:   "hello",
		IsActive:  true,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func testCtx() context.Context {
	return context.Background()
}
