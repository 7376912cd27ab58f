package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"photostream/apperror"
	"photostream/photos"
	"photostream/users"
)

func (s *Server) initPhotoRoutes() {
	gate := s.RequireAuth()
	moderators := s.RequireRole(users.RoleAdmin, users.RoleModerator)

	s.registerRoute("GET /health", ChainMiddleware(s.LivenessHandler("photo service up"), s.baseMiddleware()...))

	s.registerRoute("GET /photos", ChainMiddleware(s.ListPhotosHandler(), s.baseMiddleware()...))
	s.registerRoute("GET /photos/{id}", ChainMiddleware(s.GetPhotoHandler(), s.baseMiddleware()...))
	s.registerRoute("POST /photos", ChainMiddleware(s.CreatePhotoHandler(), s.baseMiddleware(gate)...))
	s.registerRoute("DELETE /photos/{id}", ChainMiddleware(s.DeletePhotoHandler(), s.baseMiddleware(gate, moderators)...))

	s.registerRoute("GET /categories", ChainMiddleware(s.ListCategoriesHandler(), s.baseMiddleware()...))
	s.registerRoute("POST /categories", ChainMiddleware(s.CreateCategoryHandler(), s.baseMiddleware(gate, moderators)...))
}

// ListPhotosHandler serves the paginated feed through the page cache.
func (s *Server) ListPhotosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		result, cached, err := s.listing.Page(r.Context(), page, limit)
		if err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not load photos"))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"cached":  cached,
			"count":   result.Count,
			"total":   result.Total,
			"page":    result.Page,
			"photos":  result.Photos,
		})
	}
}

func (s *Server) GetPhotoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photo, err := s.listing.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, photos.ErrNotFound) {
				s.respondError(w, apperror.New(apperror.NotFound, "photo not found"))
				return
			}
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not load photo"))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"photo":   photo,
		})
	}
}

type createPhotoRequest struct {
	PhotoURL    string   `json:"photo_url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Username    string   `json:"username"`
	FullName    string   `json:"fullname"`
	ProfileImg  string   `json:"profile_img"`
}

// CreatePhotoHandler commits the photo and invalidates every cached listing
// page. The uploader identity comes from the gate, never from the payload.
func (s *Server) CreatePhotoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			s.respondError(w, apperror.New(apperror.Authentication, "you need to log in"))
			return
		}

		var req createPhotoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Validation, "invalid request body"))
			return
		}

		fields := make(map[string]string)
		if strings.TrimSpace(req.PhotoURL) == "" {
			fields["photo_url"] = "photo_url is required"
		}
		if strings.TrimSpace(req.Title) == "" {
			fields["title"] = "title is required"
		}
		if len(fields) > 0 {
			s.respondError(w, apperror.NewValidation("invalid photo payload", fields))
			return
		}

		photo := &photos.Photo{
			UserID:      identity.SubjectID,
			PhotoURL:    req.PhotoURL,
			Title:       req.Title,
			Description: req.Description,
			Categories:  req.Categories,
			Tags:        req.Tags,
			User: photos.UserSummary{
				Username:   valueOr(req.Username, "unknown"),
				FullName:   valueOr(req.FullName, "Unknown User"),
				ProfileImg: valueOr(req.ProfileImg, "default.jpg"),
			},
		}
		if err := s.listing.Create(r.Context(), photo); err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not save photo"))
			return
		}

		s.respondJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "photo uploaded",
			"photo":   photo,
		})
	}
}

func (s *Server) DeletePhotoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.listing.Delete(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, photos.ErrNotFound) {
				s.respondError(w, apperror.New(apperror.NotFound, "photo not found"))
				return
			}
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not delete photo"))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "photo deleted",
		})
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Validation, "invalid request body"))
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			s.respondError(w, apperror.NewValidation("invalid category payload",
				map[string]string{"name": "name is required"}))
			return
		}

		category := &photos.Category{
			Name: name,
			Slug: slugify(name),
		}
		if err := s.categories.InsertCategory(r.Context(), category); err != nil {
			if errors.Is(err, photos.ErrDuplicateCategory) {
				s.respondError(w, apperror.New(apperror.Conflict, "this category already exists"))
				return
			}
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not save category"))
			return
		}

		s.respondJSON(w, http.StatusCreated, map[string]any{
			"success":  true,
			"category": category,
		})
	}
}

func (s *Server) ListCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.categories.ListCategories(r.Context())
		if err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Internal, "could not load categories"))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"categories": list,
		})
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(slug), "-")
}
