package service

import (
	"context"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryView is a query decorated for the viewing user.
type QueryView struct {
	models.Query
	UserHasLiked   bool                           `json:"userHasLiked"`
	UserHasUpvoted bool                           `json:"userHasUpvoted"`
	Offices        []models.QueryOfficeAssignment `json:"offices,omitempty"`
	Ngos           []models.QueryNgoAssignment    `json:"ngos,omitempty"`
	Updates        []models.QueryUpdate           `json:"updates,omitempty"`
}

// QueryPage is one page of the query listing.
type QueryPage struct {
	Queries    []QueryView `json:"queries"`
	Total      int64       `json:"totalQueries"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"currentPage"`
}

// DailyCount is one day of the created-queries series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Analytics summarizes query activity for dashboards.
type Analytics struct {
	ByStatus     []repository.StatusCount `json:"queriesByStatus"`
	Last7Days    []DailyCount             `json:"last7Days"`
	TopUpvoted   []models.Query           `json:"topUpvotedQueries"`
	TotalQueries int64                    `json:"totalQueries"`
}

// GetQuery returns one query with its assignment set, transition history and
// the viewer's engagement flags. Counters are clamped at zero.
func (s *Lifecycle) GetQuery(ctx context.Context, queryID primitive.ObjectID, viewerID *primitive.ObjectID) (*QueryView, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}

	view := &QueryView{Query: *query}
	view.clampCounters()

	if view.Offices, err = s.assignments.ListOffices(ctx, query.ID); err != nil {
		return nil, wrapInternal(err, "Failed to load assignments")
	}
	if view.Ngos, err = s.assignments.ListNgos(ctx, query.ID); err != nil {
		return nil, wrapInternal(err, "Failed to load assignments")
	}
	if view.Updates, err = s.updates.ListByQuery(ctx, query.ID); err != nil {
		return nil, wrapInternal(err, "Failed to load query history")
	}

	if viewerID != nil {
		s.attachViewerFlags(ctx, view, *viewerID)
	}

	return view, nil
}

// ListQueries returns a filtered, paginated page of queries decorated for
// the viewer.
func (s *Lifecycle) ListQueries(ctx context.Context, filter repository.QueryListFilter, viewerID *primitive.ObjectID) (*QueryPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	queries, total, err := s.queries.List(ctx, filter)
	if err != nil {
		return nil, wrapInternal(err, "Failed to retrieve queries")
	}

	views := make([]QueryView, 0, len(queries))
	for i := range queries {
		view := QueryView{Query: queries[i]}
		view.clampCounters()
		if viewerID != nil {
			s.attachViewerFlags(ctx, &view, *viewerID)
		}
		views = append(views, view)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &QueryPage{
		Queries:    views,
		Total:      total,
		TotalPages: totalPages,
		Page:       filter.Page,
	}, nil
}

// MyQueries returns all queries the user submitted, newest first.
func (s *Lifecycle) MyQueries(ctx context.Context, userID primitive.ObjectID) ([]QueryView, error) {
	queries, err := s.queries.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err, "Failed to retrieve queries")
	}

	views := make([]QueryView, 0, len(queries))
	for i := range queries {
		view := QueryView{Query: queries[i]}
		view.clampCounters()
		s.attachViewerFlags(ctx, &view, userID)
		views = append(views, view)
	}
	return views, nil
}

// RecentGeotagged returns the latest queries carrying coordinates, for the
// map view.
func (s *Lifecycle) RecentGeotagged(ctx context.Context, limit int64) ([]models.Query, error) {
	if limit <= 0 {
		limit = 19
	}
	queries, err := s.queries.RecentGeotagged(ctx, limit)
	if err != nil {
		return nil, wrapInternal(err, "Failed to retrieve recent queries")
	}
	return queries, nil
}

// GetAnalytics assembles the dashboard summary.
func (s *Lifecycle) GetAnalytics(ctx context.Context) (*Analytics, error) {
	byStatus, err := s.queries.StatusCounts(ctx)
	if err != nil {
		return nil, wrapInternal(err, "Failed to compute analytics")
	}

	var last7Days []DailyCount
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		count, err := s.queries.CountCreatedBetween(ctx, date, date.AddDate(0, 0, 1))
		if err != nil {
			count = 0
		}
		last7Days = append(last7Days, DailyCount{
			Date:  date.Format("2006-01-02"),
			Count: count,
		})
	}

	topUpvoted, err := s.queries.TopUpvoted(ctx, 5)
	if err != nil {
		return nil, wrapInternal(err, "Failed to compute analytics")
	}

	total, err := s.queries.Count(ctx)
	if err != nil {
		total = 0
	}

	return &Analytics{
		ByStatus:     byStatus,
		Last7Days:    last7Days,
		TopUpvoted:   topUpvoted,
		TotalQueries: total,
	}, nil
}

func (v *QueryView) clampCounters() {
	v.LikeCount = clampCount(v.LikeCount)
	v.UpvoteCount = clampCount(v.UpvoteCount)
	v.ShareCount = clampCount(v.ShareCount)
	v.CommentCount = clampCount(v.CommentCount)
}

func (s *Lifecycle) attachViewerFlags(ctx context.Context, view *QueryView, viewerID primitive.ObjectID) {
	liked, err := s.engagement.HasLiked(ctx, view.ID, viewerID)
	if err == nil {
		view.UserHasLiked = liked
	}
	upvoted, err := s.engagement.HasUpvoted(ctx, view.ID, viewerID)
	if err == nil {
		view.UserHasUpvoted = upvoted
	}
}
