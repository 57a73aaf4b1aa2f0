package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

const eventDateLayout = "2006-01-02"

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Venue       string  `json:"venue"`
	EventDate   string  `json:"event_date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	BannerImage *string `json:"banner_image,omitempty"`
	MaxSeats    int     `json:"max_seats"`
}

// Validate implements Validator. Structural checks only; the time-range and
// date rules live in the lifecycle service.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(c.Venue) == "" {
		errs = append(errs, "venue is required")
	}
	if c.Category == "" {
		errs = append(errs, "category is required")
	}
	if c.EventDate == "" {
		errs = append(errs, "event_date is required")
	}
	return errs
}

// TransitionRequest is the request body for POST /events/{eventID}/status.
type TransitionRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (c TransitionRequest) Validate() []string {
	if c.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// EventSuccessResponse is the success envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListResponse is the data payload for GET /events.
type EventListResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type EventController struct {
	Logger    *slog.Logger
	Lifecycle domain.LifecycleService
	Catalog   domain.CatalogService
}

func NewEventController(logger *slog.Logger, lifecycle domain.LifecycleService, catalog domain.CatalogService) *EventController {
	return &EventController{
		Logger:    logger,
		Lifecycle: lifecycle,
		Catalog:   catalog,
	}
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Submit a campus event. Faculty submissions start pending admin review; admin submissions are approved immediately. Students may not create events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event draft"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event_date must be YYYY-MM-DD")
		return
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.EventCategory(req.Category),
		Venue:       req.Venue,
		EventDate:   eventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BannerImage: req.BannerImage,
		MaxSeats:    req.MaxSeats,
	}
	if err := c.Lifecycle.CreateEvent(r.Context(), event, caller); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// TransitionEvent godoc
// @Summary Change an event's lifecycle status
// @Description Applies one lifecycle transition (approve, reject, cancel, complete). Admin only, except cancellation which is also open to the owning faculty member. Re-applying the current status is rejected.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param transition body TransitionRequest true "Target status"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_transition"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [post]
func (c *EventController) TransitionEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req TransitionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	target, err := domain.ParseEventStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown status")
		return
	}

	event, err := c.Lifecycle.Transition(r.Context(), eventID, target, caller)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Lists events with optional case-insensitive search over title and description, category filtering, and pagination. Sorted by event date ascending.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring match on title/description"
// @Param category query string false "Category filter, or 'all'"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.CallerFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter, msg := helpers.ParseEventFilter(r)
	if msg != "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msg)
		return
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Catalog.ListEvents(r.Context(), filter, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	if _, ok := middleware.CallerFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event, err := c.Catalog.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
