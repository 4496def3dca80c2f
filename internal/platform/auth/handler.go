package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the sign-in session over HTTP. The platform sign-in flow
// (Google, Apple) runs outside this process; the surface receives the
// resulting ID token and holds the identity for the sync client.
type Handler struct {
	session  *Session
	verifier *Verifier
}

func NewHandler(session *Session, verifier *Verifier) *Handler {
	return &Handler{session: session, verifier: verifier}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/auth/session", h.GetSession)
	api.POST("/auth/session", h.SignIn)
	api.DELETE("/auth/session", h.SignOut)
}

func (h *Handler) GetSession(c echo.Context) error {
	id := h.session.Current()
	if id == nil {
		return c.JSON(http.StatusOK, map[string]bool{"signedIn": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"signedIn": true, "identity": id})
}

type signInRequest struct {
	IDToken string `json:"idToken"`
}

func (h *Handler) SignIn(c echo.Context) error {
	var in signInRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.IDToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "idToken required")
	}
	id, err := h.verifier.Verify(in.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid id token")
	}
	h.session.SignIn(id)
	return c.JSON(http.StatusOK, id)
}

// SignOut clears the session identity. Stored profile data stays put, so
// signing back in picks up where the user left off.
func (h *Handler) SignOut(c echo.Context) error {
	h.session.SignOut()
	return c.NoContent(http.StatusNoContent)
}
