package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/application/usecase"
	"askRoomWeb/internal/modules/rooms/domain"
	"askRoomWeb/internal/shared/httputil"
)

// RoomsHandler serves the page and the form actions of one browser session.
type RoomsHandler struct {
	api            port.RoomsAPI
	uploadMaxBytes int64
	errors         *httputil.ErrorMapper
}

func NewRoomsHandler(api port.RoomsAPI, uploadMaxBytes int64) *RoomsHandler {
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = 25 << 20
	}
	return &RoomsHandler{
		api:            api,
		uploadMaxBytes: uploadMaxBytes,
		errors:         NewRoomsErrorMapper(),
	}
}

// NewRoomsErrorMapper maps session and backend failures to response statuses.
func NewRoomsErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(port.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "upload too large").
		WithMapping(port.ErrInvalidInput, http.StatusBadRequest, "invalid input").
		WithMapping(port.ErrNoRoomSelected, http.StatusBadRequest, "no room selected").
		WithMapping(port.ErrUnknownRoom, http.StatusNotFound, "unknown room").
		WithMapping(port.ErrBackendRejected, http.StatusBadGateway, "backend rejected request").
		WithMapping(port.ErrBackendUnavailable, http.StatusServiceUnavailable, "backend unavailable")
}

// Register mounts the session-scoped routes on e behind mw.
func (h *RoomsHandler) Register(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/", h.page, mw...)
	e.GET("/state", h.state, mw...)
	e.POST("/rooms/form/toggle", h.toggleCreateRoom, mw...)
	e.POST("/rooms/form/cancel", h.cancelCreateRoom, mw...)
	e.POST("/rooms", h.createRoom, mw...)
	e.POST("/rooms/:id/select", h.selectRoom, mw...)
	e.POST("/questions", h.createQuestion, mw...)
	e.POST("/audio", h.uploadAudio, mw...)
}

func (h *RoomsHandler) page(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index.html", session.View())
}

func (h *RoomsHandler) state(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session.View())
}

func (h *RoomsHandler) toggleCreateRoom(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	session.ToggleCreateRoom(operationContext(c))
	return h.respond(c, session, nil)
}

func (h *RoomsHandler) cancelCreateRoom(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	session.CancelCreateRoom(operationContext(c))
	return h.respond(c, session, nil)
}

func (h *RoomsHandler) createRoom(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	draft := roomDraftFromForm(c)
	return h.respond(c, session, session.CreateRoom(operationContext(c), draft))
}

func (h *RoomsHandler) selectRoom(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	return h.respond(c, session, session.SelectRoom(operationContext(c), c.Param("id")))
}

func (h *RoomsHandler) createQuestion(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	return h.respond(c, session, session.CreateQuestion(operationContext(c), c.FormValue("content")))
}

func (h *RoomsHandler) uploadAudio(c echo.Context) error {
	session, err := sessionOrError(c)
	if err != nil {
		return err
	}
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.uploadMaxBytes)
	ctx := operationContext(c)

	header, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("audio upload too large", slog.String("sessionId", session.ID()), slog.Int64("limit", tooLarge.Limit))
			return h.respond(c, session, session.Reject(ctx, "upload audio", fmt.Errorf("%w: limit %d bytes", port.ErrUploadTooLarge, tooLarge.Limit)))
		}
		// Missing file still goes through the session so the notice is shown.
		return h.respond(c, session, session.UploadAudio(ctx, port.AudioFile{}))
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("audio upload open failed", slog.String("sessionId", session.ID()), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to read upload")
	}
	defer file.Close()

	audio := port.AudioFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return h.respond(c, session, session.UploadAudio(ctx, audio))
}

// Health reports the backend health probe.
func (h *RoomsHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	health, err := h.api.Health(ctx)
	if err != nil {
		info := h.errors.Map(err)
		slog.Warn("backend health failed", slog.Int("status", info.Status), slog.Any("error", err))
		return c.JSON(info.Status, map[string]string{"status": "offline", "error": info.Message})
	}
	return c.JSON(http.StatusOK, health)
}

// respond answers JSON clients with the view and a mapped status, and everyone
// else with a redirect back to the page.
func (h *RoomsHandler) respond(c echo.Context, session *usecase.Session, opErr error) error {
	if wantsJSON(c.Request()) {
		info := h.errors.Map(opErr)
		if opErr != nil {
			slog.Debug("session operation response", slog.String("sessionId", session.ID()), slog.String("path", c.Path()), slog.Int("status", info.Status))
		}
		return c.JSON(info.Status, session.View())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// operationContext detaches session mutations from the request so a dropped
// connection does not abort a submission. The backend client bounds each call.
func operationContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func roomDraftFromForm(c echo.Context) domain.RoomDraft {
	return domain.RoomDraft{Name: c.FormValue("name"), Description: c.FormValue("description")}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get(echo.HeaderAccept)), echo.MIMEApplicationJSON)
}

func sessionOrError(c echo.Context) (*usecase.Session, error) {
	session, ok := SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
	}
	return session, nil
}
