package profile

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the profile editing surface over HTTP. Every mutation goes
// through an explicit store operation; the handlers never hand out references
// into the session state.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.ReplaceProfile)
	api.POST("/profile/save", h.SaveProfile)
	api.GET("/profile/sync/status", h.SyncStatus)

	api.POST("/profile/contacts", h.AddContact)
	api.DELETE("/profile/contacts/:id", h.RemoveContact)

	api.POST("/profile/lists/:field", h.AddListItem)
	api.DELETE("/profile/lists/:field", h.RemoveListItem)

	api.PUT("/profile/bloodtype", h.SetBloodType)
	api.GET("/profile/bloodtypes", h.ListBloodTypes)
}

func (h *Handler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Store().Snapshot())
}

func (h *Handler) ReplaceProfile(c echo.Context) error {
	var p EmergencyProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Store().Replace(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.Store().Snapshot())
}

// SaveProfile persists locally and kicks off the background push. The
// response reflects the local outcome only; sync status is reported
// separately.
func (h *Handler) SaveProfile(c echo.Context) error {
	if err := h.svc.Save(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

type syncStatusResponse struct {
	Synced     bool   `json:"synced"`
	UserID     string `json:"userId,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	DurationMS int64  `json:"durationMs,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *Handler) SyncStatus(c echo.Context) error {
	res := h.svc.LastSyncResult()
	if res == nil {
		return c.JSON(http.StatusOK, syncStatusResponse{})
	}
	out := syncStatusResponse{
		Synced:     res.Success(),
		UserID:     res.UserID,
		StatusCode: res.StatusCode,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) AddContact(c echo.Context) error {
	var in EmergencyContact
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	contact, ok := h.svc.Store().AddContact(in)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "contact requires a name and phone number")
	}
	return c.JSON(http.StatusCreated, contact)
}

// RemoveContact deletes by ID. Unknown IDs return 204 like successful
// deletes; removal is idempotent.
func (h *Handler) RemoveContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	h.svc.Store().RemoveContact(id)
	return c.NoContent(http.StatusNoContent)
}

type listItemRequest struct {
	Value string `json:"value"`
}

func (h *Handler) AddListItem(c echo.Context) error {
	field := ListField(c.Param("field"))
	if !field.Valid() {
		return echo.NewHTTPError(http.StatusNotFound, "unknown list field")
	}
	var in listItemRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !h.svc.Store().AddListItem(field, in.Value) {
		return echo.NewHTTPError(http.StatusBadRequest, "value must not be empty")
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"field": field,
		"items": h.svc.Store().Snapshot().ListItems(field),
	})
}

// RemoveListItem removes every entry equal to the value query parameter.
func (h *Handler) RemoveListItem(c echo.Context) error {
	field := ListField(c.Param("field"))
	if !field.Valid() {
		return echo.NewHTTPError(http.StatusNotFound, "unknown list field")
	}
	value := c.QueryParam("value")
	if value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "value query parameter required")
	}
	removed := h.svc.Store().RemoveListItem(field, value)
	return c.JSON(http.StatusOK, map[string]any{
		"removed": removed,
		"items":   h.svc.Store().Snapshot().ListItems(field),
	})
}

type bloodTypeRequest struct {
	BloodType BloodType `json:"bloodType"`
}

func (h *Handler) SetBloodType(c echo.Context) error {
	var in bloodTypeRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !h.svc.Store().SetBloodType(in.BloodType) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown blood type")
	}
	return c.JSON(http.StatusOK, map[string]BloodType{"bloodType": in.BloodType})
}

func (h *Handler) ListBloodTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, BloodTypes())
}

// Health is registered outside the authenticated API group.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
