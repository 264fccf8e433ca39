package services

import (
	"sort"
	"time"

	"journal-management-api/models"
)

// TrendBucket selects the calendar granularity of a trend series.
type TrendBucket string

const (
	BucketDay   TrendBucket = "day"
	BucketMonth TrendBucket = "month"
)

// MetricsWindow bounds time-windowed aggregates. Zero From/To means
// unbounded on that side; an empty Bucket defaults to day.
type MetricsWindow struct {
	From   time.Time
	To     time.Time
	Bucket TrendBucket
}

func (w MetricsWindow) contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// TrendPoint is one non-zero bucket of a sparse, chronologically ascending
// time series.
type TrendPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// ReviewerPerformance aggregates one reviewer's assignment outcomes.
// Rates with a zero denominator are reported as zero.
type ReviewerPerformance struct {
	ReviewerID     uint    `json:"reviewer_id"`
	Name           string  `json:"name"`
	TotalAssigned  int     `json:"total_assigned"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	OnTime         int     `json:"on_time"`
	OnTimeRate     float64 `json:"on_time_rate"`
	AvgRating      float64 `json:"avg_rating"`
}

// JournalRank is one entry of the venues-by-article-count ranking.
type JournalRank struct {
	JournalID uint   `json:"journal_id"`
	Title     string `json:"title"`
	Articles  int    `json:"articles"`
}

// ReviewerRank is one entry of the reviewers-by-review-count ranking.
type ReviewerRank struct {
	ReviewerID uint   `json:"reviewer_id"`
	Name       string `json:"name"`
	Reviews    int    `json:"reviews"`
}

// JournalPublicationRate reports published vs. total submissions per venue
// within the window.
type JournalPublicationRate struct {
	JournalID uint    `json:"journal_id"`
	Title     string  `json:"title"`
	Published int     `json:"published"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// Metrics is the full aggregate snapshot. Every field tolerates an empty
// population and reports zeroed/empty values rather than failing.
type Metrics struct {
	AsOf                     time.Time                       `json:"as_of"`
	TotalManuscripts         int                             `json:"total_manuscripts"`
	ManuscriptsByStatus      map[models.ManuscriptStatus]int `json:"manuscripts_by_status"`
	TotalReviews             int                             `json:"total_reviews"`
	ReviewsByStatus          map[models.ReviewSubStatus]int  `json:"reviews_by_status"`
	OverdueReviews           int                             `json:"overdue_reviews"`
	AvgReviewCycleDays       float64                         `json:"avg_review_cycle_days"`
	PublishedInWindow        int                             `json:"published_in_window"`
	AvgTimeToPublicationDays float64                         `json:"avg_time_to_publication_days"`
	ReviewerPerformance      []ReviewerPerformance           `json:"reviewer_performance"`
	SubmissionTrend          []TrendPoint                    `json:"submission_trend"`
	PublicationTrend         []TrendPoint                    `json:"publication_trend"`
	TopJournals              []JournalRank                   `json:"top_journals"`
	TopReviewers             []ReviewerRank                  `json:"top_reviewers"`
	PublicationRateByJournal []JournalPublicationRate        `json:"publication_rate_by_journal"`
}

const topN = 10

// MetricsService derives operational statistics from the manuscript and
// assignment population. It is read-only, takes no locks, and tolerates
// reading a manuscript mid-transition; the numbers are advisory.
type MetricsService struct {
	store EntityStore
	now   func() time.Time
}

func NewMetricsService(store EntityStore) *MetricsService {
	return &MetricsService{store: store, now: time.Now}
}

// ComputeMetrics scans the population once and aggregates everything in a
// single pass. A zero asOf defaults to now.
func (s *MetricsService) ComputeMetrics(window MetricsWindow, asOf time.Time) (*Metrics, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	if window.Bucket == "" {
		window.Bucket = BucketDay
	}

	manuscripts, err := s.store.Query(ManuscriptQuery{})
	if err != nil {
		return nil, err
	}

	out := &Metrics{
		AsOf:                asOf,
		ManuscriptsByStatus: make(map[models.ManuscriptStatus]int),
		ReviewsByStatus:     make(map[models.ReviewSubStatus]int),
	}

	var (
		cycleDaysSum      float64
		cycleCount        int
		pubDaysSum        float64
		perReviewer       = make(map[uint]*ReviewerPerformance)
		ratingSums        = make(map[uint]float64)
		ratingCounts      = make(map[uint]int)
		submissionCounts  = make(map[string]int)
		publicationCounts = make(map[string]int)
		perJournal        = make(map[uint]*JournalPublicationRate)
	)

	for i := range manuscripts {
		m := &manuscripts[i]
		status := statusAsOf(m, asOf)
		if status == "" {
			continue
		}

		out.TotalManuscripts++
		out.ManuscriptsByStatus[status]++

		journalTitle := ""
		if m.Journal != nil {
			journalTitle = m.Journal.Title
		}
		if window.contains(m.SubmissionDate) {
			submissionCounts[bucketKey(m.SubmissionDate, window.Bucket)]++
			jr := perJournal[m.JournalID]
			if jr == nil {
				jr = &JournalPublicationRate{JournalID: m.JournalID, Title: journalTitle}
				perJournal[m.JournalID] = jr
			}
			jr.Total++
		}
		if status == models.StatusPublished && m.PublicationDate != nil && !m.PublicationDate.After(asOf) {
			if window.contains(*m.PublicationDate) {
				out.PublishedInWindow++
				publicationCounts[bucketKey(*m.PublicationDate, window.Bucket)]++
				pubDaysSum += m.PublicationDate.Sub(m.SubmissionDate).Hours() / 24
				jr := perJournal[m.JournalID]
				if jr == nil {
					jr = &JournalPublicationRate{JournalID: m.JournalID, Title: journalTitle}
					perJournal[m.JournalID] = jr
				}
				jr.Published++
			}
		}

		for j := range m.ReviewAssignments {
			a := &m.ReviewAssignments[j]
			if a.AssignedAt.After(asOf) {
				continue
			}

			out.TotalReviews++
			out.ReviewsByStatus[a.SubStatus]++
			if a.IsOverdueAt(asOf) {
				out.OverdueReviews++
			}

			perf := perReviewer[a.ReviewerID]
			if perf == nil {
				perf = &ReviewerPerformance{ReviewerID: a.ReviewerID}
				if a.Reviewer != nil {
					perf.Name = a.Reviewer.Name
				}
				perReviewer[a.ReviewerID] = perf
			}
			perf.TotalAssigned++

			if a.SubStatus == models.ReviewCompleted && a.SubmittedAt != nil && !a.SubmittedAt.After(asOf) {
				perf.Completed++
				if a.DueDate == nil || !a.SubmittedAt.After(*a.DueDate) {
					perf.OnTime++
				}
				if a.Rating != nil {
					ratingSums[a.ReviewerID] += float64(*a.Rating)
					ratingCounts[a.ReviewerID]++
				}
				if window.contains(*a.SubmittedAt) {
					cycleDaysSum += a.SubmittedAt.Sub(a.AssignedAt).Hours() / 24
					cycleCount++
				}
			}
		}
	}

	if cycleCount > 0 {
		out.AvgReviewCycleDays = cycleDaysSum / float64(cycleCount)
	}
	if out.PublishedInWindow > 0 {
		out.AvgTimeToPublicationDays = pubDaysSum / float64(out.PublishedInWindow)
	}

	out.ReviewerPerformance = buildReviewerPerformance(perReviewer, ratingSums, ratingCounts)
	out.TopReviewers = buildTopReviewers(out.ReviewerPerformance)
	out.TopJournals = buildTopJournals(manuscripts, asOf)
	out.SubmissionTrend = buildTrend(submissionCounts)
	out.PublicationTrend = buildTrend(publicationCounts)
	out.PublicationRateByJournal = buildPublicationRates(perJournal)

	return out, nil
}

// statusAsOf reconstructs the workflow status at asOf from the audit trail,
// falling back to the stored status for records loaded without history.
func statusAsOf(m *models.Manuscript, asOf time.Time) models.ManuscriptStatus {
	if len(m.StatusHistory) > 0 {
		return m.StatusAt(asOf)
	}
	if m.SubmissionDate.After(asOf) {
		return ""
	}
	return m.Status
}

func bucketKey(t time.Time, bucket TrendBucket) string {
	if bucket == BucketMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func buildTrend(counts map[string]int) []TrendPoint {
	points := make([]TrendPoint, 0, len(counts))
	for key, count := range counts {
		points = append(points, TrendPoint{Bucket: key, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket < points[j].Bucket })
	return points
}

func buildReviewerPerformance(perReviewer map[uint]*ReviewerPerformance, ratingSums map[uint]float64, ratingCounts map[uint]int) []ReviewerPerformance {
	result := make([]ReviewerPerformance, 0, len(perReviewer))
	for id, perf := range perReviewer {
		if perf.TotalAssigned > 0 {
			perf.CompletionRate = float64(perf.Completed) / float64(perf.TotalAssigned) * 100
		}
		if perf.Completed > 0 {
			perf.OnTimeRate = float64(perf.OnTime) / float64(perf.Completed) * 100
		}
		if n := ratingCounts[id]; n > 0 {
			perf.AvgRating = ratingSums[id] / float64(n)
		}
		result = append(result, *perf)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalAssigned != result[j].TotalAssigned {
			return result[i].TotalAssigned > result[j].TotalAssigned
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func buildTopReviewers(performance []ReviewerPerformance) []ReviewerRank {
	ranks := make([]ReviewerRank, 0, len(performance))
	for _, perf := range performance {
		if perf.TotalAssigned == 0 {
			continue
		}
		ranks = append(ranks, ReviewerRank{
			ReviewerID: perf.ReviewerID,
			Name:       perf.Name,
			Reviews:    perf.TotalAssigned,
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Reviews != ranks[j].Reviews {
			return ranks[i].Reviews > ranks[j].Reviews
		}
		return ranks[i].Name < ranks[j].Name
	})
	if len(ranks) > topN {
		ranks = ranks[:topN]
	}
	return ranks
}

func buildTopJournals(manuscripts []models.Manuscript, asOf time.Time) []JournalRank {
	byJournal := make(map[uint]*JournalRank)
	for i := range manuscripts {
		m := &manuscripts[i]
		if statusAsOf(m, asOf) == "" {
			continue
		}
		rank := byJournal[m.JournalID]
		if rank == nil {
			rank = &JournalRank{JournalID: m.JournalID}
			if m.Journal != nil {
				rank.Title = m.Journal.Title
			}
			byJournal[m.JournalID] = rank
		}
		rank.Articles++
	}
	ranks := make([]JournalRank, 0, len(byJournal))
	for _, rank := range byJournal {
		ranks = append(ranks, *rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Articles != ranks[j].Articles {
			return ranks[i].Articles > ranks[j].Articles
		}
		return ranks[i].Title < ranks[j].Title
	})
	if len(ranks) > topN {
		ranks = ranks[:topN]
	}
	return ranks
}

func buildPublicationRates(perJournal map[uint]*JournalPublicationRate) []JournalPublicationRate {
	rates := make([]JournalPublicationRate, 0, len(perJournal))
	for _, jr := range perJournal {
		if jr.Total > 0 {
			jr.Rate = float64(jr.Published) / float64(jr.Total) * 100
		}
		rates = append(rates, *jr)
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		return rates[i].Title < rates[j].Title
	})
	return rates
}
