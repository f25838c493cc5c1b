package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/testutil"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	created := testutil.TestUser(t, db)

	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Username, found.Username)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	_, err := repo.GetByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db, testutil.WithUsername("alice"), testutil.WithEmail("alice@example.com"))
	testutil.TestUser(t, db, testutil.WithUsername("ghost"), testutil.WithInactive())

	byName, err := repo.GetByLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByLogin("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByLogin("ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	testutil.TestUser(t, db, testutil.WithUsername("bob"), testutil.WithEmail("exists@example.com"))

	exists, err := repo.ExistsByEmail("exists@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("notexists@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByUsername("bob")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	err := repo.UpdateFields(user.ID, map[string]interface{}{"bio": "hello", "country": "NZ"})
	require.NoError(t, err)

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Bio)
	assert.Equal(t, "NZ", found.Country)
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithUsername("Carol_1"))
	testutil.TestUser(t, db, testutil.WithUsername("carol_2"))
	testutil.TestUser(t, db, testutil.WithUsername("dave"))

	users, total, err := repo.List("CAROL", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	// 下划线按字面匹配
	_, total, err = repo.List("l_", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	users, total, err = repo.List("", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 1)
}

func TestUserRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db)
	testutil.TestUser(t, db, testutil.WithModerator())
	testutil.TestUser(t, db, testutil.WithAdmin())
	testutil.TestUser(t, db, testutil.WithBanned("spam"))

	all, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(4), all)

	banned, err := repo.CountBanned()
	require.NoError(t, err)
	assert.Equal(t, int64(1), banned)

	mods, err := repo.CountModerators()
	require.NoError(t, err)
	assert.Equal(t, int64(2), mods)

	recent, err := repo.CountCreatedSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), recent)
}
