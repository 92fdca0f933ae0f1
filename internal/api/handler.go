// Package api exposes the seater over HTTP
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/limaJavier/examseating/internal/cache"
	"github.com/limaJavier/examseating/internal/metrics"
	"github.com/limaJavier/examseating/internal/queue"
	"github.com/limaJavier/examseating/internal/repository"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/limaJavier/examseating/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Handler struct {
	seater      model.Seater
	settings    cache.Settings
	cachePrefix string
	repository  repository.AssignmentRepository
	cache       cache.Cache
	publisher   queue.Publisher
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
	now         func() time.Time
}

// Dependencies left nil fall back to no cache, no events and in-memory storage
type Dependencies struct {
	Repository  repository.AssignmentRepository
	Cache       cache.Cache
	CachePrefix string
	Publisher   queue.Publisher
	Metrics     *metrics.Metrics
	Logger      logrus.FieldLogger
}

// NewHandler serves seater. settings must describe how seater was configured, since cached results are keyed on them
func NewHandler(seater model.Seater, settings cache.Settings, deps Dependencies) *Handler {
	handler := &Handler{
		seater:      seater,
		settings:    settings,
		cachePrefix: deps.CachePrefix,
		repository:  deps.Repository,
		cache:       deps.Cache,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		now:         time.Now,
	}
	if handler.repository == nil {
		handler.repository = repository.NewMemoryAssignmentRepository()
	}
	if handler.cache == nil {
		handler.cache = cache.NewNoCache()
	}
	if handler.cachePrefix == "" {
		handler.cachePrefix = "seating"
	}
	if handler.publisher == nil {
		handler.publisher = queue.NewNoPublisher()
	}
	if handler.metrics == nil {
		handler.metrics = metrics.New()
	}
	if handler.logger == nil {
		handler.logger = logrus.StandardLogger()
	}
	return handler
}

type assignResponse struct {
	RunId string `json:"run_id"`
	model.Result
	Cached bool `json:"cached"`
}

type failureResponse struct {
	Reason   model.Reason    `json:"reason"`
	Message  string          `json:"message"`
	Students []model.Student `json:"students,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Assign seats the students of the request, stores the seating and announces it
func (handler *Handler) Assign(c echo.Context) error {
	ctx := c.Request().Context()

	input, err := model.InputFromReader(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}
	logger := handler.logger.WithFields(logrus.Fields{"students": len(input.Students), "rooms": len(input.Rooms), "solver": handler.settings.Solver})

	//** Cache lookup
	key, err := cache.Key(handler.cachePrefix, input, handler.settings)
	if err != nil {
		logger.WithError(err).Warn("cannot compute cache key")
	} else if result, ok, err := handler.cache.Get(ctx, key); err != nil {
		handler.metrics.ObserveCache(metrics.Error)
		logger.WithError(err).Warn("cache lookup failed")
	} else if ok {
		handler.metrics.ObserveCache(metrics.Hit)
		return c.JSON(http.StatusOK, assignResponse{Result: result, Cached: true})
	} else {
		handler.metrics.ObserveCache(metrics.Miss)
	}

	//** Solve
	result, err := handler.seater.Seat(ctx, input)
	handler.metrics.ObserveSeating(handler.settings.Solver, result, err, result.Summary.SolveTime)
	var failure *model.Failure
	if errors.As(err, &failure) {
		logger.WithField("reason", failure.Reason).Info(failure.Message)
		return c.JSON(http.StatusUnprocessableEntity, failureResponse{Reason: failure.Reason, Message: failure.Message, Students: failure.Students})
	} else if errors.Is(err, model.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	} else if errors.Is(err, sat.ErrEngineBusy) {
		logger.Warn("engine busy")
		return c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "too many seatings in progress, retry later"})
	} else if err != nil {
		logger.WithError(err).Error("seating failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "seating failed"})
	}

	//** Store and announce
	runId := uuid.NewString()
	if err := handler.repository.Save(ctx, runId, result.Assignments, input.Students); err != nil {
		logger.WithError(err).Error("cannot store seating")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "cannot store seating"})
	}
	if err := handler.publisher.PublishSeatingAssigned(ctx, queue.NewSeatingAssignedEvent(runId, result, handler.now())); err != nil {
		logger.WithError(err).Warn("cannot publish seating event")
	}
	if key != "" {
		if err := handler.cache.Set(ctx, key, result); err != nil {
			logger.WithError(err).Warn("cannot cache seating")
		}
	}

	logger.WithFields(logrus.Fields{"run": runId, "outcome": result.Outcome, "rooms_used": result.RoomsUsed}).Info("seating assigned")
	return c.JSON(http.StatusOK, assignResponse{RunId: runId, Result: result})
}

// List pages through stored assignments with the skip and limit query parameters
func (handler *Handler) List(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "skip must be a non-negative integer"})
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit <= 0 || limit > maxLimit {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "limit must be between 1 and " + strconv.Itoa(maxLimit)})
	}

	records, err := handler.repository.List(c.Request().Context(), skip, limit)
	if err != nil {
		handler.logger.WithError(err).Error("cannot list assignments")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "cannot list assignments"})
	}
	return c.JSON(http.StatusOK, records)
}

func (handler *Handler) ByStudent(c echo.Context) error {
	studentId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "student id must be an integer"})
	}

	records, err := handler.repository.ByStudent(c.Request().Context(), studentId)
	if err != nil {
		handler.logger.WithError(err).Error("cannot read student assignments")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "cannot read student assignments"})
	}
	return c.JSON(http.StatusOK, records)
}

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	value := c.QueryParam(name)
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}
