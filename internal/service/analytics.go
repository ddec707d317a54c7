package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
)

const (
	DefaultAnalyticsDays = 30
	MaxAnalyticsDays     = 365
	RealtimeWindow       = 5 * time.Minute

	topN          = 10
	recentEvents  = 20
	maxScanEvents = 50000
)

const (
	EventPageView    = "page_view"
	EventProductView = "product_view"
)

type AnalyticsStore interface {
	CreateEvent(ctx context.Context, e *models.AnalyticsEvent) error
	EventsSince(ctx context.Context, since time.Time, limit int) ([]models.AnalyticsEvent, error)
	OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
}

type Counted struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type DayCount struct {
	Date   string `json:"date"`
	Events int    `json:"events"`
	Orders int    `json:"orders"`
}

type AnalyticsSummary struct {
	Days              int             `json:"days"`
	Since             time.Time       `json:"since"`
	TotalEvents       int             `json:"totalEvents"`
	PageViews         int             `json:"pageViews"`
	ProductViews      int             `json:"productViews"`
	UniqueSessions    int             `json:"uniqueSessions"`
	EventsByType      map[string]int  `json:"eventsByType"`
	TopPages          []Counted       `json:"topPages"`
	TopProducts       []Counted       `json:"topProducts"`
	Daily             []DayCount      `json:"daily"`
	Orders            int             `json:"orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersByStatus    map[string]int  `json:"ordersByStatus"`
}

type RealtimeSnapshot struct {
	WindowSeconds  int                     `json:"windowSeconds"`
	ActiveSessions int                     `json:"activeSessions"`
	Events         int                     `json:"events"`
	ActivePages    []Counted               `json:"activePages"`
	RecentEvents   []models.AnalyticsEvent `json:"recentEvents"`
	Timestamp      time.Time               `json:"timestamp"`
}

type AnalyticsService struct {
	Repo    AnalyticsStore
	Metrics *metrics.Registry
	events  events
	now     func() time.Time
}

func NewAnalyticsService(store AnalyticsStore, pub mykafka.Publisher, m *metrics.Registry) *AnalyticsService {
	return &AnalyticsService{
		Repo:    store,
		Metrics: m,
		events:  newEvents(pub, m),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnalyticsService) Track(ctx context.Context, req transport.TrackEventRequest) (*models.AnalyticsEvent, error) {
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		return nil, validation("type is required")
	}

	e := &models.AnalyticsEvent{
		Type:      kind,
		Page:      req.Page,
		ProductID: req.ProductID,
		SessionID: req.SessionID,
		Metadata:  req.Metadata,
		CreatedAt: s.now(),
	}
	if err := s.Repo.CreateEvent(ctx, e); err != nil {
		return nil, persistence("create analytics event", err)
	}

	if s.Metrics != nil {
		s.Metrics.AnalyticsTracked.WithLabelValues(kind).Inc()
	}
	key := e.SessionID
	if key == "" {
		key = e.ID
	}
	s.events.publish(ctx, mykafka.TopicAnalytics, key, map[string]any{
		"type":      "analytics_" + kind,
		"eventID":   e.ID,
		"page":      e.Page,
		"productID": e.ProductID,
	})
	return e, nil
}

func top(counts map[string]int, n int) []Counted {
	out := make([]Counted, 0, len(counts))
	for k, c := range counts {
		if k == "" {
			continue
		}
		out = append(out, Counted{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary aggregates events and orders from the last days days. Days outside
// 1..MaxAnalyticsDays fall back to DefaultAnalyticsDays.
func (s *AnalyticsService) Summary(ctx context.Context, days int) (*AnalyticsSummary, error) {
	if days <= 0 || days > MaxAnalyticsDays {
		days = DefaultAnalyticsDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -days)

	evs, err := s.Repo.EventsSince(ctx, since, maxScanEvents)
	if err != nil {
		return nil, persistence("list analytics events", err)
	}
	orders, err := s.Repo.OrdersSince(ctx, since)
	if err != nil {
		return nil, persistence("list orders", err)
	}

	sum := &AnalyticsSummary{
		Days:           days,
		Since:          since,
		TotalEvents:    len(evs),
		EventsByType:   map[string]int{},
		OrdersByStatus: map[string]int{},
		Orders:         len(orders),
		Revenue:        decimal.Zero,
	}

	daily := map[string]*DayCount{}
	day := func(t time.Time) *DayCount {
		k := t.UTC().Format(time.DateOnly)
		d, ok := daily[k]
		if !ok {
			d = &DayCount{Date: k}
			daily[k] = d
		}
		return d
	}

	sessions := map[string]struct{}{}
	pages := map[string]int{}
	products := map[string]int{}
	for _, e := range evs {
		sum.EventsByType[e.Type]++
		day(e.CreatedAt).Events++
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
		switch e.Type {
		case EventPageView:
			sum.PageViews++
			pages[e.Page]++
		case EventProductView:
			sum.ProductViews++
			products[e.ProductID]++
		}
	}
	sum.UniqueSessions = len(sessions)
	sum.TopPages = top(pages, topN)
	sum.TopProducts = top(products, topN)

	for _, o := range orders {
		sum.Revenue = sum.Revenue.Add(o.Total)
		sum.OrdersByStatus[o.Status]++
		day(o.CreatedAt).Orders++
	}
	sum.AverageOrderValue = decimal.Zero
	if len(orders) > 0 {
		sum.AverageOrderValue = sum.Revenue.Div(decimal.NewFromInt(int64(len(orders)))).Round(3)
	}

	sum.Daily = make([]DayCount, 0, len(daily))
	for _, d := range daily {
		sum.Daily = append(sum.Daily, *d)
	}
	sort.Slice(sum.Daily, func(i, j int) bool { return sum.Daily[i].Date < sum.Daily[j].Date })
	return sum, nil
}

func (s *AnalyticsService) Realtime(ctx context.Context) (*RealtimeSnapshot, error) {
	now := s.now()
	evs, err := s.Repo.EventsSince(ctx, now.Add(-RealtimeWindow), maxScanEvents)
	if err != nil {
		return nil, persistence("list analytics events", err)
	}

	sessions := map[string]struct{}{}
	pages := map[string]int{}
	for _, e := range evs {
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
		if e.Page != "" {
			pages[e.Page]++
		}
	}

	recent := evs
	if len(recent) > recentEvents {
		recent = recent[:recentEvents]
	}
	return &RealtimeSnapshot{
		WindowSeconds:  int(RealtimeWindow / time.Second),
		ActiveSessions: len(sessions),
		Events:         len(evs),
		ActivePages:    top(pages, topN),
		RecentEvents:   recent,
		Timestamp:      now,
	}, nil
}
