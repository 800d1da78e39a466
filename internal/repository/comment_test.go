package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_RootsAndReplies(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	author := createTestProfile(t, db)
	category := createTestCategory(t, db)
	post := createTestPost(t, db, author, category)

	root := createTestComment(t, db, post.ID, nil)
	replyA := createTestComment(t, db, post.ID, &root.ID)
	replyB := createTestComment(t, db, post.ID, &root.ID)

	roots, err := repo.ListRootsByPost(testCtx(), post.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1, "replies are not listed as roots")
	assert.Equal(t, root.ID, roots[0].ID)
	assert.Len(t, roots[0].Replies, 2, "one level of replies is preloaded")

	replies, err := repo.ListReplies(testCtx(), root.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, replyA.ID, replies[0].ID, "replies come back oldest first")
	assert.Equal(t, replyB.ID, replies[1].ID)
}

func TestCommentRepository_Exists(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	author := createTestProfile(t, db)
	category := createTestCategory(t, db)
	post := createTestPost(t, db, author, category)
	comment := createTestComment(t, db, post.ID, nil)

	exists, err := repo.Exists(testCtx(), comment.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(testCtx(), comment.ID+1000)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentRepository_Delete_CascadesReplies(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	author := createTestProfile(t, db)
	category := createTestCategory(t, db)
	post := createTestPost(t, db, author, category)

	root := createTestComment(t, db, post.ID, nil)
	createTestComment(t, db, post.ID, &root.ID)

	require.NoError(t, repo.Delete(testCtx(), root.ID))

	roots, err := repo.ListRootsByPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, roots)

	exists, err := repo.Exists(testCtx(), root.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
