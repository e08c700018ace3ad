package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/goal-master/pkg/models/api"
	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) GetSummary(ctx context.Context, userID string, period domain.Period) (domain.SummaryStats, error) {
	args := m.Called(ctx, userID, period)
	return args.Get(0).(domain.SummaryStats), args.Error(1)
}

func (m *mockAnalytics) GetMonthlySeries(
	ctx context.Context,
	userID string,
	period domain.Period,
	category domain.Category,
) ([]domain.MonthlyProgress, error) {
	args := m.Called(ctx, userID, period, category)
	return args.Get(0).([]domain.MonthlyProgress), args.Error(1)
}

func (m *mockAnalytics) GetCategorySeries(
	ctx context.Context,
	userID string,
	period domain.Period,
) (map[domain.Category][]domain.MonthlyProgress, error) {
	args := m.Called(ctx, userID, period)
	return args.Get(0).(map[domain.Category][]domain.MonthlyProgress), args.Error(1)
}

func (m *mockAnalytics) GetRanking(
	ctx context.Context,
	userID string,
	direction domain.SortDirection,
	limit int,
) ([]domain.RankedGoal, error) {
	args := m.Called(ctx, userID, direction, limit)
	return args.Get(0).([]domain.RankedGoal), args.Error(1)
}

func (m *mockAnalytics) GetDistributions(ctx context.Context, userID string, period domain.Period) (domain.Distributions, error) {
	args := m.Called(ctx, userID, period)
	return args.Get(0).(domain.Distributions), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockSvc := new(mockAnalytics)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"https://app.example.com"},
		Dependencies: Dependencies{
			Analytics: mockSvc,
			Logger:    logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "Health",
			path:           "/health",
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected:       map[string]string{"status": "ok"},
			parseResponse:  unmarshalResponse[map[string]string](),
		},
		{
			name: "Summary",
			path: "/api/v1/users/u1/analytics/summary?period=1month",
			setupMocks: func() {
				mockSvc.On("GetSummary", mock.Anything, "u1", domain.PeriodOneMonth).
					Return(domain.SummaryStats{
						TotalObjectives:      1,
						StatusCounts:         map[domain.Status]int{domain.StatusPending: 1},
						CategoryDistribution: map[domain.Category]int{},
						Trend:                domain.Trend{Direction: domain.TrendStable},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.SummaryStats{
				TotalObjectives:      1,
				StatusCounts:         map[string]int{"Pending": 1},
				CategoryDistribution: map[string]int{},
				Trend:                api.Trend{Direction: "stable"},
			},
			parseResponse: unmarshalResponse[api.SummaryStats](),
		},
		{
			name: "Trend",
			path: "/api/v1/users/u1/analytics/trend?period=3months",
			setupMocks: func() {
				mockSvc.On("GetMonthlySeries", mock.Anything, "u1", domain.PeriodThreeMonths, domain.Category("")).
					Return([]domain.MonthlyProgress{{MonthYear: "2024-06", AverageProgress: 12}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.MonthlyProgress{{MonthYear: "2024-06", AverageProgress: 12}},
			parseResponse:  unmarshalResponse[[]api.MonthlyProgress](),
		},
		{
			name: "Ranking",
			path: "/api/v1/users/u1/analytics/ranking?sort=low&limit=1",
			setupMocks: func() {
				mockSvc.On("GetRanking", mock.Anything, "u1", domain.SortLow, 1).
					Return([]domain.RankedGoal{{Goal: domain.GoalSnapshot{ID: "g1"}, ProgressPercentage: 3}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.RankedGoal{{Goal: api.Goal{ID: "g1"}, ProgressPercentage: 3}},
			parseResponse:  unmarshalResponse[[]api.RankedGoal](),
		},
		{
			name:           "Ranking_InvalidLimit",
			path:           "/api/v1/users/u1/analytics/ranking?limit=-x",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       api.Error{Error: "invalid 'limit'. Expected a whole number"},
			parseResponse:  unmarshalResponse[api.Error](),
		},
		{
			name: "Distribution_StoreFailure",
			path: "/api/v1/users/u2/analytics/distribution",
			setupMocks: func() {
				mockSvc.On("GetDistributions", mock.Anything, "u2", domain.PeriodAll).
					Return(domain.Distributions{}, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expected:       api.Error{Error: "failed to build distributions"},
			parseResponse:  unmarshalResponse[api.Error](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWebAPI_CORS(t *testing.T) {
	router := ConfigureRouter(Config{
		AllowedOrigins: []string{"https://app.example.com"},
		Dependencies:   Dependencies{Analytics: new(mockAnalytics), Logger: zerolog.Nop()},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebAPI_StartStopsOnContextCancel(t *testing.T) {
	webAPI := NewWebAPI(Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies:    Dependencies{Analytics: new(mockAnalytics), Logger: zerolog.Nop()},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- webAPI.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
