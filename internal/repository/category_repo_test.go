package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/forum_server/internal/testutil"
)

func TestCategoryRepository_ListOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCategoryRepository(db)

	parent := testutil.TestCategory(t, db, testutil.WithSlug("general"))
	b := testutil.TestCategory(t, db, testutil.WithParent(parent.ID), testutil.WithSortOrder(2))
	a := testutil.TestCategory(t, db, testutil.WithParent(parent.ID), testutil.WithSortOrder(1))
	c := testutil.TestCategory(t, db, testutil.WithParent(parent.ID), testutil.WithSortOrder(2))
	testutil.TestCategory(t, db, testutil.WithParent(parent.ID), testutil.WithCategoryInactive())

	children, err := repo.ListChildren(parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{children[0].ID, children[1].ID, children[2].ID})

	all, err := repo.ListActive()
	require.NoError(t, err)
	assert.Len(t, all, 4)

	has, err := repo.HasChildren(parent.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasChildren(a.ID)
	require.NoError(t, err)
	assert.False(t, has)

	found, err := repo.GetBySlug("general")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, found.ID)
}
