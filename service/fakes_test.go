package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// In-memory fakes standing in for the mongo repositories.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// interleavingTxRunner lets a competing writer commit right before the
// transaction body runs, to exercise stale-precondition handling.
type interleavingTxRunner struct {
	before func()
}

func (r interleavingTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.before != nil {
		r.before()
	}
	return fn(ctx)
}

type fakeQueryRepo struct {
	mu      sync.Mutex
	queries map[primitive.ObjectID]*models.Query

	insertErr error
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{queries: make(map[primitive.ObjectID]*models.Query)}
}

func (r *fakeQueryRepo) Insert(_ context.Context, q *models.Query) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	clone := *q
	r.queries[q.ID] = &clone
	return nil
}

func (r *fakeQueryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (r *fakeQueryRepo) List(_ context.Context, filter repository.QueryListFilter) ([]models.Query, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Query
	for _, q := range r.queries {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		result = append(result, *q)
	}
	return result, int64(len(result)), nil
}

func (r *fakeQueryRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Query
	for _, q := range r.queries {
		if q.SubmittedBy == userID {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (r *fakeQueryRepo) RecentGeotagged(_ context.Context, _ int64) ([]models.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Query
	for _, q := range r.queries {
		if q.Latitude != nil && q.Longitude != nil {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (r *fakeQueryRepo) SetStatus(_ context.Context, id primitive.ObjectID, from, to models.QueryStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queries[id]
	if !ok {
		return repository.ErrNotFound
	}
	if q.Status != from {
		return repository.ErrConflict
	}
	q.Status = to
	q.UpdatedAt = at
	switch to {
	case models.StatusAccepted:
		q.AcceptedAt = &at
	case models.StatusResolved:
		q.ResolvedAt = &at
	case models.StatusClosed:
		q.ClosedAt = &at
	}
	return nil
}

func (r *fakeQueryRepo) UpdateDetails(_ context.Context, id primitive.ObjectID, from models.QueryStatus, details repository.QueryDetailsUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queries[id]
	if !ok {
		return repository.ErrNotFound
	}
	if q.Status != from {
		return repository.ErrConflict
	}
	if details.Title != nil {
		q.Title = *details.Title
	}
	if details.Description != nil {
		q.Description = *details.Description
	}
	if details.WardNumber != nil {
		q.WardNumber = *details.WardNumber
	}
	if details.Latitude != nil {
		q.Latitude = details.Latitude
	}
	if details.Longitude != nil {
		q.Longitude = details.Longitude
	}
	if details.EstimatedBudget != nil {
		q.EstimatedBudget = details.EstimatedBudget
	}
	q.UpdatedAt = time.Now()
	return nil
}

func (r *fakeQueryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.queries, id)
	return nil
}

func (r *fakeQueryRepo) AdjustCounter(_ context.Context, id primitive.ObjectID, counter repository.Counter, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queries[id]
	if !ok {
		return repository.ErrNotFound
	}
	switch counter {
	case repository.CounterLike:
		q.LikeCount += delta
	case repository.CounterUpvote:
		q.UpvoteCount += delta
	case repository.CounterShare:
		q.ShareCount += delta
	case repository.CounterComment:
		q.CommentCount += delta
	}
	return nil
}

func (r *fakeQueryRepo) SetThresholdReached(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queries[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.HasReachedThreshold = true
	return nil
}

func (r *fakeQueryRepo) StatusCounts(_ context.Context) ([]repository.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.QueryStatus]int64)
	for _, q := range r.queries {
		counts[q.Status]++
	}
	var result []repository.StatusCount
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *fakeQueryRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, q := range r.queries {
		if !q.CreatedAt.Before(from) && q.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeQueryRepo) TopUpvoted(_ context.Context, limit int64) ([]models.Query, error) {
	result, _, err := r.List(context.Background(), repository.QueryListFilter{})
	if err != nil {
		return nil, err
	}
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeQueryRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.queries)), nil
}

type fakeUpdateRepo struct {
	mu      sync.Mutex
	updates []models.QueryUpdate
}

func (r *fakeUpdateRepo) Insert(_ context.Context, u *models.QueryUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.updates = append(r.updates, *u)
	return nil
}

func (r *fakeUpdateRepo) DeleteByQuery(_ context.Context, queryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var remaining []models.QueryUpdate
	for _, u := range r.updates {
		if u.QueryID != queryID {
			remaining = append(remaining, u)
		}
	}
	r.updates = remaining
	return nil
}

func (r *fakeUpdateRepo) ListByQuery(_ context.Context, queryID primitive.ObjectID) ([]models.QueryUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.QueryUpdate
	for _, u := range r.updates {
		if u.QueryID == queryID {
			result = append(result, u)
		}
	}
	return result, nil
}

type fakeAssignmentRepo struct {
	mu      sync.Mutex
	offices []models.QueryOfficeAssignment
	ngos    []models.QueryNgoAssignment
}

func (r *fakeAssignmentRepo) DeleteByQuery(_ context.Context, queryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var offices []models.QueryOfficeAssignment
	for _, a := range r.offices {
		if a.QueryID != queryID {
			offices = append(offices, a)
		}
	}
	r.offices = offices
	var ngos []models.QueryNgoAssignment
	for _, a := range r.ngos {
		if a.QueryID != queryID {
			ngos = append(ngos, a)
		}
	}
	r.ngos = ngos
	return nil
}

func (r *fakeAssignmentRepo) InsertOffices(_ context.Context, assignments []models.QueryOfficeAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offices = append(r.offices, assignments...)
	return nil
}

func (r *fakeAssignmentRepo) InsertNgos(_ context.Context, assignments []models.QueryNgoAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ngos = append(r.ngos, assignments...)
	return nil
}

func (r *fakeAssignmentRepo) ListOffices(_ context.Context, queryID primitive.ObjectID) ([]models.QueryOfficeAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.QueryOfficeAssignment
	for _, a := range r.offices {
		if a.QueryID == queryID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) ListNgos(_ context.Context, queryID primitive.ObjectID) ([]models.QueryNgoAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.QueryNgoAssignment
	for _, a := range r.ngos {
		if a.QueryID == queryID {
			result = append(result, a)
		}
	}
	return result, nil
}

type ratingKey struct {
	user   primitive.ObjectID
	target primitive.ObjectID
}

type fakeRatingRepo struct {
	mu            sync.Mutex
	queryRatings  []models.QueryRating
	officeRatings map[ratingKey]int
	ngoRatings    map[ratingKey]int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		officeRatings: make(map[ratingKey]int),
		ngoRatings:    make(map[ratingKey]int),
	}
}

func (r *fakeRatingRepo) DeleteQueryRatings(_ context.Context, queryID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var remaining []models.QueryRating
	for _, rating := range r.queryRatings {
		if rating.QueryID == queryID && rating.UserID == userID {
			continue
		}
		remaining = append(remaining, rating)
	}
	r.queryRatings = remaining
	return nil
}

func (r *fakeRatingRepo) DeleteByQuery(_ context.Context, queryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var remaining []models.QueryRating
	for _, rating := range r.queryRatings {
		if rating.QueryID != queryID {
			remaining = append(remaining, rating)
		}
	}
	r.queryRatings = remaining
	return nil
}

func (r *fakeRatingRepo) InsertQueryRatings(_ context.Context, ratings []models.QueryRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryRatings = append(r.queryRatings, ratings...)
	return nil
}

func (r *fakeRatingRepo) ListByQuery(_ context.Context, queryID primitive.ObjectID) ([]models.QueryRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.QueryRating
	for _, rating := range r.queryRatings {
		if rating.QueryID == queryID {
			result = append(result, rating)
		}
	}
	return result, nil
}

func (r *fakeRatingRepo) UpsertOfficeRating(_ context.Context, userID, officeID primitive.ObjectID, rating int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.officeRatings[ratingKey{user: userID, target: officeID}] = rating
	return nil
}

func (r *fakeRatingRepo) UpsertNgoRating(_ context.Context, userID, ngoID primitive.ObjectID, rating int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ngoRatings[ratingKey{user: userID, target: ngoID}] = rating
	return nil
}

func (r *fakeRatingRepo) OfficeAggregate(_ context.Context, officeID primitive.ObjectID) (repository.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int64
	for key, rating := range r.officeRatings {
		if key.target == officeID {
			sum += int64(rating)
			count++
		}
	}
	if count == 0 {
		return repository.RatingAggregate{}, nil
	}
	return repository.RatingAggregate{Average: float64(sum) / float64(count), Count: count}, nil
}

func (r *fakeRatingRepo) NgoAggregate(_ context.Context, ngoID primitive.ObjectID) (repository.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int64
	for key, rating := range r.ngoRatings {
		if key.target == ngoID {
			sum += int64(rating)
			count++
		}
	}
	if count == 0 {
		return repository.RatingAggregate{}, nil
	}
	return repository.RatingAggregate{Average: float64(sum) / float64(count), Count: count}, nil
}

type engagementKey struct {
	query primitive.ObjectID
	user  primitive.ObjectID
}

type fakeEngagementRepo struct {
	mu      sync.Mutex
	likes   map[engagementKey]bool
	upvotes map[engagementKey]bool
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{
		likes:   make(map[engagementKey]bool),
		upvotes: make(map[engagementKey]bool),
	}
}

func (r *fakeEngagementRepo) InsertLike(_ context.Context, like models.QueryLike) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := engagementKey{query: like.QueryID, user: like.UserID}
	if r.likes[key] {
		return repository.ErrDuplicate
	}
	r.likes[key] = true
	return nil
}

func (r *fakeEngagementRepo) DeleteLike(_ context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := engagementKey{query: queryID, user: userID}
	if !r.likes[key] {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeEngagementRepo) HasLiked(_ context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[engagementKey{query: queryID, user: userID}], nil
}

func (r *fakeEngagementRepo) InsertUpvote(_ context.Context, upvote models.QueryUpvote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := engagementKey{query: upvote.QueryID, user: upvote.UserID}
	if r.upvotes[key] {
		return repository.ErrDuplicate
	}
	r.upvotes[key] = true
	return nil
}

func (r *fakeEngagementRepo) DeleteUpvote(_ context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := engagementKey{query: queryID, user: userID}
	if !r.upvotes[key] {
		return false, nil
	}
	delete(r.upvotes, key)
	return true, nil
}

func (r *fakeEngagementRepo) HasUpvoted(_ context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upvotes[engagementKey{query: queryID, user: userID}], nil
}

func (r *fakeEngagementRepo) DeleteByQuery(_ context.Context, queryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.likes {
		if key.query == queryID {
			delete(r.likes, key)
		}
	}
	for key := range r.upvotes {
		if key.query == queryID {
			delete(r.upvotes, key)
		}
	}
	return nil
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[primitive.ObjectID]*models.Complaint
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[primitive.ObjectID]*models.Complaint)}
}

func (r *fakeComplaintRepo) Insert(_ context.Context, c *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	clone := *c
	r.complaints[c.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeComplaintRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Complaint
	for _, c := range r.complaints {
		if c.SubmittedBy == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) SetStatus(_ context.Context, id primitive.ObjectID, status models.ComplaintStatus, resolutionNote string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = at
	if resolutionNote != "" {
		c.ResolutionNote = resolutionNote
	}
	if status == models.ComplaintResolved {
		c.ResolvedAt = &at
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification

	insertErr error
}

func (r *fakeNotificationRepo) Insert(_ context.Context, n *models.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) List(_ context.Context, userID primitive.ObjectID, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			now := time.Now()
			r.notifications[i].IsRead = true
			r.notifications[i].ReadAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	now := time.Now()
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && !r.notifications[i].IsRead {
			r.notifications[i].IsRead = true
			r.notifications[i].ReadAt = &now
			count++
		}
	}
	return count, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog

	insertErr error
}

func (r *fakeAuditRepo) Insert(_ context.Context, entry *models.AuditLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []models.User
}

func (r *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ListIDsByRole(_ context.Context, role models.Role) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []primitive.ObjectID
	for _, u := range r.users {
		if u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) ListIDsByRoleAndPanchayat(_ context.Context, role models.Role, panchayatID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []primitive.ObjectID
	for _, u := range r.users {
		if u.Role == role && u.PanchayatID == panchayatID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// recorderBus captures published events synchronously.
type recorderBus struct {
	mu     sync.Mutex
	events []Event
}

func (b *recorderBus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recorderBus) all() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

func (b *recorderBus) notifications() []models.Notification {
	var result []models.Notification
	for _, ev := range b.all() {
		result = append(result, ev.Notifications...)
	}
	return result
}

type testEnv struct {
	lifecycle   *Lifecycle
	queries     *fakeQueryRepo
	updates     *fakeUpdateRepo
	assignments *fakeAssignmentRepo
	ratings     *fakeRatingRepo
	engagement  *fakeEngagementRepo
	users       *fakeUserRepo
	bus         *recorderBus
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv() *testEnv {
	env := &testEnv{
		queries:     newFakeQueryRepo(),
		updates:     &fakeUpdateRepo{},
		assignments: &fakeAssignmentRepo{},
		ratings:     newFakeRatingRepo(),
		engagement:  newFakeEngagementRepo(),
		users:       &fakeUserRepo{},
		bus:         &recorderBus{},
	}
	env.useTx(fakeTxRunner{})
	return env
}

// useTx rebuilds the lifecycle around a different transaction runner.
func (env *testEnv) useTx(tx repository.TxRunner) {
	env.lifecycle = NewLifecycle(LifecycleDeps{
		Tx:          tx,
		Queries:     env.queries,
		Updates:     env.updates,
		Assignments: env.assignments,
		Ratings:     env.ratings,
		Engagement:  env.engagement,
		Users:       env.users,
		Bus:         env.bus,
		Log:         testLogger(),
	})
}

func (env *testEnv) seedQuery(status models.QueryStatus, submitter, panchayat primitive.ObjectID) *models.Query {
	q := &models.Query{
		ID:          primitive.NewObjectID(),
		Title:       "Broken streetlight",
		Description: "The streetlight near the school has been out for a week",
		Status:      status,
		PanchayatID: panchayat,
		WardNumber:  4,
		SubmittedBy: submitter,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	_ = env.queries.Insert(context.Background(), q)
	return q
}
