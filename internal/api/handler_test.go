package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/limaJavier/examseating/internal/cache"
	"github.com/limaJavier/examseating/internal/queue"
	"github.com/limaJavier/examseating/internal/repository"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/limaJavier/examseating/pkg/sat"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeExams = `{
	"students": [{"student_id": 1, "exam": "math"}, {"student_id": 2, "exam": "physics"}, {"student_id": 3, "exam": "art"}],
	"rooms": [{"room_id": "R1", "rows": 1, "cols": 4}],
	"timeout_seconds": 10
}`

type mapCache struct {
	mutex   sync.Mutex
	results map[string]model.Result
}

func (cache *mapCache) Get(_ context.Context, key string) (model.Result, bool, error) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	result, ok := cache.results[key]
	return result, ok, nil
}

func (cache *mapCache) Set(_ context.Context, key string, result model.Result) error {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.results[key] = result
	return nil
}

type recordingPublisher struct {
	events []queue.SeatingAssignedEvent
	err    error
}

func (publisher *recordingPublisher) PublishSeatingAssigned(_ context.Context, event queue.SeatingAssignedEvent) error {
	publisher.events = append(publisher.events, event)
	return publisher.err
}

type server struct {
	echo       *echo.Echo
	repository repository.AssignmentRepository
	cache      *mapCache
	publisher  *recordingPublisher
	logs       *test.Hook
}

// busySolver refuses every search
type busySolver struct{}

func (busySolver) Solve(context.Context, *sat.Model, sat.Params) (sat.Solution, error) {
	return sat.Solution{}, sat.ErrEngineBusy
}

var testSettings = cache.Settings{Solver: "gophersat", Timeout: 10 * time.Second, Workers: 1, SeparationCap: model.DefaultSeparationCap}

func newServer(publisherErr error) *server {
	return newServerWith(sat.NewGophersatSolver(), testSettings, &mapCache{results: map[string]model.Result{}}, publisherErr)
}

func newServerWith(solver sat.Solver, settings cache.Settings, results *mapCache, publisherErr error) *server {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := &server{
		echo:       echo.New(),
		repository: repository.NewMemoryAssignmentRepository(),
		cache:      results,
		publisher:  &recordingPublisher{err: publisherErr},
		logs:       hook,
	}
	seater := model.NewSeater(solver, model.WithLogger(logger), model.WithTimeout(settings.Timeout), model.WithSeparationCap(settings.SeparationCap))
	handler := NewHandler(seater, settings, Dependencies{
		Repository: s.repository,
		Cache:      s.cache,
		Publisher:  s.publisher,
		Logger:     logger,
	})
	RegisterRoutes(s.echo, handler, promhttp.Handler())
	return s
}

func (s *server) do(method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	s.echo.ServeHTTP(recorder, request)
	return recorder
}

func TestAssign(t *testing.T) {
	t.Run("Seats, stores and announces", func(t *testing.T) {
		//** Arrange
		s := newServer(nil)

		//** Act
		recorder := s.do(http.MethodPost, "/assignments/assign", threeExams)

		//** Assert
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		var response assignResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.NotEmpty(t, response.RunId)
		assert.False(t, response.Cached)
		assert.Equal(t, model.Optimal, response.Outcome)
		assert.Equal(t, 1, response.RoomsUsed)
		assert.Len(t, response.Assignments, 3)

		records, err := s.repository.List(context.Background(), 0, 10)
		require.NoError(t, err)
		assert.Len(t, records, 3)

		require.Len(t, s.publisher.events, 1)
		assert.Equal(t, response.RunId, s.publisher.events[0].RunId)
		assert.Len(t, s.cache.results, 1)
	})

	t.Run("Identical request is served from cache", func(t *testing.T) {
		s := newServer(nil)
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/assignments/assign", threeExams).Code)

		recorder := s.do(http.MethodPost, "/assignments/assign", threeExams)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response assignResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Cached)
		assert.Len(t, response.Assignments, 3)
		assert.Len(t, s.publisher.events, 1)
	})

	t.Run("Other settings miss the cache", func(t *testing.T) {
		//** Arrange
		shared := &mapCache{results: map[string]model.Result{}}
		require.Equal(t, http.StatusOK, newServerWith(sat.NewGophersatSolver(), testSettings, shared, nil).do(http.MethodPost, "/assignments/assign", threeExams).Code)
		capped := testSettings
		capped.SeparationCap = 1
		s := newServerWith(sat.NewGophersatSolver(), capped, shared, nil)

		//** Act
		recorder := s.do(http.MethodPost, "/assignments/assign", threeExams)

		//** Assert
		require.Equal(t, http.StatusOK, recorder.Code)
		var response assignResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.False(t, response.Cached)
		assert.Len(t, shared.results, 2)
	})

	t.Run("Busy engine", func(t *testing.T) {
		s := newServerWith(busySolver{}, testSettings, &mapCache{results: map[string]model.Result{}}, nil)

		recorder := s.do(http.MethodPost, "/assignments/assign", threeExams)

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Empty(t, s.publisher.events)
		assert.Empty(t, s.cache.results)
	})

	t.Run("Publishing failure does not fail the request", func(t *testing.T) {
		s := newServer(assert.AnError)

		recorder := s.do(http.MethodPost, "/assignments/assign", threeExams)

		assert.Equal(t, http.StatusOK, recorder.Code)
		warnings := lo.Filter(s.logs.AllEntries(), func(entry *logrus.Entry, _ int) bool {
			return entry.Level == logrus.WarnLevel
		})
		require.Len(t, warnings, 1)
		assert.Equal(t, "cannot publish seating event", warnings[0].Message)
	})

	t.Run("Insufficient capacity", func(t *testing.T) {
		s := newServer(nil)
		body := `{"students": [{"student_id": 1, "exam": "a"}, {"student_id": 2, "exam": "b"}], "rooms": [{"room_id": "R", "rows": 1, "cols": 1}]}`

		recorder := s.do(http.MethodPost, "/assignments/assign", body)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		var response failureResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, model.InsufficientCapacity, response.Reason)
		assert.Contains(t, response.Message, "2 students cannot fit in 1 seats")
		assert.Empty(t, s.publisher.events)
	})

	t.Run("Unassignable student", func(t *testing.T) {
		s := newServer(nil)
		body := `{
			"students": [{"student_id": 7, "exam": "chemistry"}],
			"rooms": [{"room_id": "Hall", "rows": 2, "cols": 2}],
			"restrictions": {"chemistry": ["Lab"]}
		}`

		recorder := s.do(http.MethodPost, "/assignments/assign", body)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		var response failureResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, model.StudentUnassignable, response.Reason)
		assert.Equal(t, []model.Student{{Id: 7, Exam: "chemistry"}}, response.Students)
	})

	t.Run("Proven infeasible", func(t *testing.T) {
		s := newServer(nil)
		body := `{"students": [{"student_id": 1, "exam": "a"}, {"student_id": 2, "exam": "a"}], "rooms": [{"room_id": "R", "rows": 1, "cols": 2}]}`

		recorder := s.do(http.MethodPost, "/assignments/assign", body)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"reason":"ProvenInfeasible"`)
	})

	for name, body := range map[string]string{
		"Malformed json":    `{"students": [`,
		"Duplicate student": `{"students": [{"student_id": 1, "exam": "a"}, {"student_id": 1, "exam": "b"}]}`,
		"Non-positive room": `{"rooms": [{"room_id": "R", "rows": 0, "cols": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newServer(nil)

			recorder := s.do(http.MethodPost, "/assignments/assign", body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "invalid input")
		})
	}
}

func TestListing(t *testing.T) {
	s := newServer(nil)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/assignments/assign", threeExams).Code)

	t.Run("List", func(t *testing.T) {
		recorder := s.do(http.MethodGet, "/assignments?skip=1&limit=5", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		var records []repository.Record
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
		assert.Len(t, records, 2)
	})

	t.Run("Invalid paging", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/assignments?skip=-1", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/assignments?limit=0", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/assignments?limit=many", "").Code)
	})

	t.Run("By student", func(t *testing.T) {
		recorder := s.do(http.MethodGet, "/assignments/student/2", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		var records []repository.Record
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "physics", records[0].Exam)
		assert.Equal(t, "R1", records[0].RoomId)
	})

	t.Run("Unknown student", func(t *testing.T) {
		recorder := s.do(http.MethodGet, "/assignments/student/99", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `[]`, recorder.Body.String())
	})

	t.Run("Malformed student id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/assignments/student/abc", "").Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(nil)

	health := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/metrics", "").Code)
}
