package comment

import (
	"encoding/json"
	"errors"
	"net/http"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CreateInput is the request body for adding a comment.
// Blank text is legal and handled as a silent no-op, so only the upper
// bound is validated here.
type CreateInput struct {
	Text string `json:"text" validate:"max=2000"`
}

// CreateHandler handles comment submission
type CreateHandler struct {
	registry *feed.Registry
	validate *validator.Validate
}

// NewCreateHandler creates a new comment handler
func NewCreateHandler(registry *feed.Registry) *CreateHandler {
	return &CreateHandler{
		registry: registry,
		validate: validator.New(),
	}
}

// HandleCreate submits a comment. Comments are not optimistic: the window
// appends only the server-confirmed comment, and whitespace-only input is
// dropped before any upstream call.
// POST /api/posts/{postID}/comments
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID := identity.Identity(chi.URLParam(r, "postID"))
	if postID == identity.None {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "comment is too long")
		return
	}

	window := h.registry.Get(middleware.WindowID(r))
	if err := window.AddComment(r.Context(), postID, input.Text); err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "post is not in the loaded feed")
			return
		}
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "comment could not be saved")
		return
	}

	post, _ := window.Post(postID)
	handlers.WriteJSON(w, http.StatusOK, post)
}
