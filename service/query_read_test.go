package service

import (
	"context"
	"testing"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQueryView(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	viewer := Actor{ID: newID(), Role: models.RoleVoter}
	q := env.seedQuery(models.StatusInProgress, newID(), newID())

	office := newID()
	require.NoError(t, env.assignments.InsertOffices(ctx, []models.QueryOfficeAssignment{
		{QueryID: q.ID, OfficeID: office},
	}))
	require.NoError(t, env.updates.Insert(ctx, &models.QueryUpdate{
		QueryID:    q.ID,
		FromStatus: models.StatusPendingReview,
		ToStatus:   models.StatusAccepted,
	}))
	_, err := env.lifecycle.ToggleLike(ctx, viewer, q.ID, true)
	require.NoError(t, err)

	view, err := env.lifecycle.GetQuery(ctx, q.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, view.UserHasLiked)
	assert.False(t, view.UserHasUpvoted)
	require.Len(t, view.Offices, 1)
	assert.Equal(t, office, view.Offices[0].OfficeID)
	assert.Len(t, view.Updates, 1)

	// Anonymous viewers get no flags.
	view, err = env.lifecycle.GetQuery(ctx, q.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.UserHasLiked)

	_, err = env.lifecycle.GetQuery(ctx, newID(), nil)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestGetQueryClampsDriftedCounters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	q := env.seedQuery(models.StatusAccepted, newID(), newID())
	require.NoError(t, env.queries.AdjustCounter(ctx, q.ID, repository.CounterLike, -2))
	require.NoError(t, env.queries.AdjustCounter(ctx, q.ID, repository.CounterShare, 3))

	view, err := env.lifecycle.GetQuery(ctx, q.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.LikeCount)
	assert.Equal(t, int64(3), view.ShareCount)
}

func TestListQueriesPagination(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env.seedQuery(models.StatusPendingReview, newID(), newID())
	}
	env.seedQuery(models.StatusAccepted, newID(), newID())

	// Out-of-range paging inputs are normalized, not rejected.
	page, err := env.lifecycle.ListQueries(ctx, repository.QueryListFilter{Page: -2, Limit: 500}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Queries, 4)

	filtered, err := env.lifecycle.ListQueries(ctx, repository.QueryListFilter{Status: models.StatusAccepted}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Total)
}

func TestMyQueries(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	mine := newID()
	env.seedQuery(models.StatusPendingReview, mine, newID())
	env.seedQuery(models.StatusAccepted, mine, newID())
	env.seedQuery(models.StatusPendingReview, newID(), newID())

	views, err := env.lifecycle.MyQueries(ctx, mine)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, mine, v.SubmittedBy)
	}
}

func TestRecentGeotagged(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	lat, lng := 20.59, 78.96
	withPin := env.seedQuery(models.StatusPendingReview, newID(), newID())
	withPin.Latitude = &lat
	withPin.Longitude = &lng
	require.NoError(t, env.queries.Insert(ctx, withPin))
	env.seedQuery(models.StatusPendingReview, newID(), newID())

	queries, err := env.lifecycle.RecentGeotagged(ctx, 0)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, withPin.ID, queries[0].ID)
}

func TestGetAnalytics(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedQuery(models.StatusPendingReview, newID(), newID())
	env.seedQuery(models.StatusAccepted, newID(), newID())
	old := env.seedQuery(models.StatusResolved, newID(), newID())
	old.CreatedAt = time.Now().AddDate(0, 0, -30)
	require.NoError(t, env.queries.Insert(ctx, old))

	analytics, err := env.lifecycle.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), analytics.TotalQueries)
	require.Len(t, analytics.Last7Days, 7)

	// Two of the three queries were created today.
	today := analytics.Last7Days[6]
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Equal(t, int64(2), today.Count)

	var statuses []models.QueryStatus
	for _, bucket := range analytics.ByStatus {
		statuses = append(statuses, bucket.Status)
	}
	assert.ElementsMatch(t, []models.QueryStatus{
		models.StatusPendingReview,
		models.StatusAccepted,
		models.StatusResolved,
	}, statuses)
}
