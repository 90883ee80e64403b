package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/teesheet/internal/adapters/repository"
	"github.com/okian/teesheet/internal/adapters/textio"
	"github.com/okian/teesheet/internal/app"
	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/internal/domain/scheduler"
)

// scheduleRequest is the body of POST /schedules.
type scheduleRequest struct {
	RequestID string   `json:"request_id"`
	Golfers   []string `json:"golfers"`
	GroupSize int      `json:"group_size"`
	Days      int      `json:"days"`
	Seed      *int64   `json:"seed,omitempty"`
	Strict    bool     `json:"strict,omitempty"`
}

func (s scheduleRequest) toModel() model.Request {
	return model.Request{
		RequestID: strings.TrimSpace(s.RequestID),
		Golfers:   s.Golfers,
		GroupSize: s.GroupSize,
		Days:      s.Days,
		Seed:      s.Seed,
		Strict:    s.Strict,
	}
}

type submitResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type invalidRosterResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// jobView is the JSON shape of a job.
type jobView struct {
	ID         string               `json:"id"`
	RequestID  string               `json:"request_id,omitempty"`
	Status     string               `json:"status"`
	State      string               `json:"state,omitempty"`
	Seed       int64                `json:"seed"`
	Golfers    int                  `json:"golfers"`
	GroupSize  int                  `json:"group_size"`
	DaysWanted int                  `json:"days_requested"`
	Progress   int                  `json:"progress"`
	Objective  int                  `json:"objective"`
	Days       []scheduler.Day      `json:"days,omitempty"`
	Conflicts  []scheduler.Conflict `json:"conflicts,omitempty"`
	Error      string               `json:"error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}

func newJobView(j *model.Job, detailed bool) jobView {
	v := jobView{
		ID:         j.ID,
		RequestID:  j.Request.RequestID,
		Status:     string(j.Status),
		Seed:       j.Seed,
		Golfers:    len(j.Request.Golfers),
		GroupSize:  j.Request.GroupSize,
		DaysWanted: j.Request.Days,
		Progress:   j.Progress,
		Objective:  j.Objective,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
	}
	if j.Status.Finished() && j.State != scheduler.Pending {
		v.State = j.State.String()
	}
	if detailed {
		v.Days = j.Days
		v.Conflicts = j.Conflicts
	}
	if !j.StartedAt.IsZero() {
		t := j.StartedAt
		v.StartedAt = &t
	}
	if !j.FinishedAt.IsZero() {
		t := j.FinishedAt
		v.FinishedAt = &t
	}
	return v
}

type listResponse struct {
	Jobs []jobView `json:"jobs"`
}

// SchedulesHandler handles the /schedules resources.
type SchedulesHandler struct {
	deps         Dependencies
	maxListLimit int
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(deps Dependencies, maxListLimit int) *SchedulesHandler {
	if maxListLimit <= 0 {
		maxListLimit = defaultMaxListLimit
	}
	return &SchedulesHandler{deps: deps, maxListLimit: maxListLimit}
}

// HandleCollection handles POST /schedules and GET /schedules.
func (h *SchedulesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SchedulesHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_schedule"

	var req scheduleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), req.toModel())
	if err != nil {
		var cfgErr *roster.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			writeJSON(w, http.StatusBadRequest, invalidRosterResponse{
				Code:    "invalid_roster",
				Message: WrapKind(op, ErrBadRequest, err).Error(),
				Field:   cfgErr.Field,
			})
		case errors.Is(err, app.ErrBackpressure):
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		case errors.Is(err, app.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		}
		return
	}

	status := http.StatusAccepted
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, submitResponse{ID: res.JobID, Status: string(res.Status), Duplicate: res.Duplicate})
}

func (h *SchedulesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_schedules"

	q := r.URL.Query()
	limit := h.maxListLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxListLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	status := model.JobStatus(q.Get("status"))
	switch status {
	case "", model.JobQueued, model.JobRunning, model.JobDone, model.JobFailed:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	jobs, err := h.deps.List(r.Context(), status, limit)
	if err != nil {
		writeKindError(w, op, err)
		return
	}
	out := listResponse{Jobs: make([]jobView, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, newJobView(j, false))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSchedule handles GET /schedules/{id}. With ?format=text a finished
// job is rendered in the solution text format.
func (h *SchedulesHandler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_schedule"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/schedules/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	job, err := h.deps.Get(r.Context(), id)
	if err != nil {
		writeKindError(w, op, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, newJobView(job, true))
	case "text":
		if !job.Status.Finished() {
			writeError(w, http.StatusConflict, "not_ready", NewKind(op, ErrBadRequest))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = textio.WriteSolution(w, job.Objective, job.Days)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
	}
}

// writeKindError maps read-side service errors to status codes.
func writeKindError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
