package services

import (
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metricsAsOf = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newMetricsFixture() (*MetricsService, *memoryStore) {
	store := newMemoryStore()
	return NewMetricsService(store), store
}

func TestMetricsEmptyPopulation(t *testing.T) {
	svc, _ := newMetricsFixture()

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err, "an empty population is not an error")

	assert.Zero(t, got.TotalManuscripts)
	assert.Zero(t, got.TotalReviews)
	assert.Zero(t, got.OverdueReviews)
	assert.Zero(t, got.AvgReviewCycleDays)
	assert.Empty(t, got.ManuscriptsByStatus)
	assert.Empty(t, got.ReviewerPerformance)
	assert.Empty(t, got.SubmissionTrend)
	assert.Empty(t, got.TopJournals)
}

func TestMetricsOverdueScenario(t *testing.T) {
	svc, store := newMetricsFixture()

	m := seedManuscript(store, models.StatusUnderReview)
	assignedAt := metricsAsOf.AddDate(0, 0, -10)
	pastDue := metricsAsOf.AddDate(0, 0, -2)
	onTimeDue := metricsAsOf.AddDate(0, 0, 5)
	submitted := metricsAsOf.AddDate(0, 0, -3)
	m.ReviewAssignments = []models.ReviewAssignment{
		{
			ReviewerID: 4,
			Round:      1,
			SubStatus:  models.ReviewInProgress,
			AssignedAt: assignedAt,
			DueDate:    &pastDue,
			Reviewer:   &models.User{UserID: 4, Name: "Rivera"},
		},
		{
			ReviewerID:     5,
			Round:          1,
			SubStatus:      models.ReviewCompleted,
			AssignedAt:     assignedAt,
			DueDate:        &onTimeDue,
			SubmittedAt:    &submitted,
			Rating:         intPtr(4),
			Recommendation: strPtr("accept"),
			Reviewer:       &models.User{UserID: 5, Name: "Chen"},
		},
	}
	store.add(m)

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)

	assert.Equal(t, 1, got.OverdueReviews)
	assert.Equal(t, 1, got.ReviewsByStatus[models.ReviewInProgress])
	assert.Equal(t, 1, got.ReviewsByStatus[models.ReviewCompleted])
	assert.Equal(t, 2, got.TotalReviews)
}

func TestOverduePredicateIgnoresTerminal(t *testing.T) {
	svc, store := newMetricsFixture()

	m := seedManuscript(store, models.StatusUnderReview)
	pastDue := metricsAsOf.AddDate(0, 0, -5)
	submitted := metricsAsOf.AddDate(0, 0, -6)
	m.ReviewAssignments = []models.ReviewAssignment{
		{ReviewerID: 4, SubStatus: models.ReviewCompleted, AssignedAt: metricsAsOf.AddDate(0, 0, -20), DueDate: &pastDue, SubmittedAt: &submitted},
		{ReviewerID: 5, SubStatus: models.ReviewDeclined, AssignedAt: metricsAsOf.AddDate(0, 0, -20), DueDate: &pastDue},
	}
	store.add(m)

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)
	assert.Zero(t, got.OverdueReviews, "terminal assignments are never overdue, regardless of due date")
}

func TestStatusCountsGroupedInOnePass(t *testing.T) {
	svc, store := newMetricsFixture()
	for _, status := range []models.ManuscriptStatus{
		models.StatusSubmitted,
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusPublished,
	} {
		m := seedManuscript(store, status)
		if status == models.StatusPublished {
			pub := metricsAsOf.AddDate(0, 0, -30)
			m.PublicationDate = &pub
			store.add(m)
		}
	}

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalManuscripts)
	assert.Equal(t, 2, got.ManuscriptsByStatus[models.StatusSubmitted])
	assert.Equal(t, 1, got.ManuscriptsByStatus[models.StatusUnderReview])
	assert.Equal(t, 1, got.ManuscriptsByStatus[models.StatusPublished])
}

func TestAvgReviewCycleDays(t *testing.T) {
	svc, store := newMetricsFixture()

	m := seedManuscript(store, models.StatusUnderReview)
	mk := func(daysToComplete int) models.ReviewAssignment {
		assigned := metricsAsOf.AddDate(0, 0, -30)
		submitted := assigned.AddDate(0, 0, daysToComplete)
		return models.ReviewAssignment{
			ReviewerID:     4,
			SubStatus:      models.ReviewCompleted,
			AssignedAt:     assigned,
			SubmittedAt:    &submitted,
			Rating:         intPtr(3),
			Recommendation: strPtr("accept"),
		}
	}
	m.ReviewAssignments = []models.ReviewAssignment{mk(10), mk(20)}
	store.add(m)

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got.AvgReviewCycleDays, 0.01)
}

func TestReviewerPerformanceRates(t *testing.T) {
	svc, store := newMetricsFixture()

	m := seedManuscript(store, models.StatusUnderReview)
	assigned := metricsAsOf.AddDate(0, 0, -20)
	due := metricsAsOf.AddDate(0, 0, -10)
	onTime := due.AddDate(0, 0, -1)
	late := due.AddDate(0, 0, 2)
	m.ReviewAssignments = []models.ReviewAssignment{
		// Rivera: 2 assigned, 2 completed, 1 on time.
		{ReviewerID: 4, SubStatus: models.ReviewCompleted, AssignedAt: assigned, DueDate: &due, SubmittedAt: &onTime, Rating: intPtr(5), Reviewer: &models.User{UserID: 4, Name: "Rivera"}},
		{ReviewerID: 4, SubStatus: models.ReviewCompleted, AssignedAt: assigned, DueDate: &due, SubmittedAt: &late, Rating: intPtr(3), Reviewer: &models.User{UserID: 4, Name: "Rivera"}},
		// Chen: 2 assigned, nothing completed.
		{ReviewerID: 5, SubStatus: models.ReviewInProgress, AssignedAt: assigned, DueDate: &due, Reviewer: &models.User{UserID: 5, Name: "Chen"}},
		{ReviewerID: 5, SubStatus: models.ReviewDeclined, AssignedAt: assigned, Reviewer: &models.User{UserID: 5, Name: "Chen"}},
	}
	store.add(m)

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)

	require.Len(t, got.ReviewerPerformance, 2)
	// Equal totals tie-break alphabetically on name.
	chen, rivera := got.ReviewerPerformance[0], got.ReviewerPerformance[1]
	assert.Equal(t, "Chen", chen.Name)
	assert.Equal(t, "Rivera", rivera.Name)

	assert.Equal(t, 2, rivera.TotalAssigned)
	assert.InDelta(t, 100.0, rivera.CompletionRate, 0.01)
	assert.InDelta(t, 50.0, rivera.OnTimeRate, 0.01)
	assert.InDelta(t, 4.0, rivera.AvgRating, 0.01)

	assert.Zero(t, chen.Completed)
	assert.Zero(t, chen.CompletionRate, "zero denominator reports zero, not an error")
	assert.Zero(t, chen.OnTimeRate)
}

func TestTrendBucketsSparseAscending(t *testing.T) {
	svc, store := newMetricsFixture()

	dates := []time.Time{
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		m := seedManuscript(store, models.StatusSubmitted)
		m.SubmissionDate = d
		store.add(m)
	}

	got, err := svc.ComputeMetrics(MetricsWindow{
		From:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Bucket: BucketMonth,
	}, metricsAsOf)
	require.NoError(t, err)

	require.Len(t, got.SubmissionTrend, 2, "only non-zero buckets appear")
	assert.Equal(t, TrendPoint{Bucket: "2026-01", Count: 2}, got.SubmissionTrend[0])
	assert.Equal(t, TrendPoint{Bucket: "2026-03", Count: 1}, got.SubmissionTrend[1])
}

func TestTopJournalsTieBreakAlphabetical(t *testing.T) {
	svc, store := newMetricsFixture()

	zephyr := &models.Journal{JournalID: 1, Title: "Zephyr Review"}
	aurora := &models.Journal{JournalID: 2, Title: "Aurora Letters"}
	for i := 0; i < 2; i++ {
		m := seedManuscript(store, models.StatusUnderReview)
		m.JournalID = zephyr.JournalID
		m.Journal = zephyr
		store.add(m)

		m = seedManuscript(store, models.StatusUnderReview)
		m.JournalID = aurora.JournalID
		m.Journal = aurora
		store.add(m)
	}

	got, err := svc.ComputeMetrics(MetricsWindow{}, metricsAsOf)
	require.NoError(t, err)

	require.Len(t, got.TopJournals, 2)
	assert.Equal(t, "Aurora Letters", got.TopJournals[0].Title, "ties break alphabetically")
	assert.Equal(t, "Zephyr Review", got.TopJournals[1].Title)
}

func TestPublicationMetricsWindowed(t *testing.T) {
	svc, store := newMetricsFixture()

	inWindow := metricsAsOf.AddDate(0, 0, -10)
	outOfWindow := metricsAsOf.AddDate(0, -8, 0)

	m := seedManuscript(store, models.StatusPublished)
	m.SubmissionDate = inWindow.AddDate(0, 0, -40)
	m.PublicationDate = &inWindow
	store.add(m)

	m = seedManuscript(store, models.StatusPublished)
	m.SubmissionDate = outOfWindow.AddDate(0, 0, -40)
	m.PublicationDate = &outOfWindow
	store.add(m)

	got, err := svc.ComputeMetrics(MetricsWindow{From: metricsAsOf.AddDate(0, -6, 0), To: metricsAsOf}, metricsAsOf)
	require.NoError(t, err)

	assert.Equal(t, 1, got.PublishedInWindow)
	assert.InDelta(t, 40.0, got.AvgTimeToPublicationDays, 0.01)
}

func TestStatusReconstructedAsOf(t *testing.T) {
	svc, store := newMetricsFixture()

	m := seedManuscript(store, models.StatusAccepted)
	m.StatusHistory = []models.ManuscriptStatusHistory{
		{NewStatus: models.StatusSubmitted, ChangedBy: 3, ChangedAt: metricsAsOf.AddDate(0, 0, -30)},
		{NewStatus: models.StatusUnderReview, ChangedBy: 2, ChangedAt: metricsAsOf.AddDate(0, 0, -20)},
		{NewStatus: models.StatusAccepted, ChangedBy: 2, ChangedAt: metricsAsOf.AddDate(0, 0, -1)},
	}
	store.add(m)

	earlier := metricsAsOf.AddDate(0, 0, -10)
	got, err := svc.ComputeMetrics(MetricsWindow{}, earlier)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ManuscriptsByStatus[models.StatusUnderReview])
	assert.Zero(t, got.ManuscriptsByStatus[models.StatusAccepted])
}
