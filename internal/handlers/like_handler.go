package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes. It works against the
// target registry, so any resource kind registered there gets the same
// like/unlike/fans surface without handler changes.
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	targetRegistry *repositories.TargetRegistry
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, registry *repositories.TargetRegistry) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		targetRegistry: registry,
	}
}

// RegisterLikeRoutes registers like-related routes for every kind in the
// registry. Mutating routes are guarded by requireAuth; fans and counts are
// public.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	for _, kind := range h.targetRegistry.Kinds() {
		kg := g.Group("/" + kind)
		kg.POST("/:id/like", h.like(kind), requireAuth)
		kg.POST("/:id/unlike", h.unlike(kind), requireAuth)
		kg.GET("/:id/fans", h.fans(kind))
		kg.GET("/:id/likes/count", h.likesCount(kind))
	}
}

// like handles liking a target of the given kind. Liking an already liked
// target succeeds without changing anything.
func (h *LikeHandler) like(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := models.ReactableRef{Kind: kind, ID: c.Param("id")}

		if err := h.resolveTarget(c, target); err != nil {
			return err
		}

		userID := getUserIDFromContext(c)
		if err := h.likeRepository.AddLike(c.Request().Context(), userID, target); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "liked"})
	}
}

// unlike handles unliking a target of the given kind. Unliking a target that
// was never liked succeeds without changing anything.
func (h *LikeHandler) unlike(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := models.ReactableRef{Kind: kind, ID: c.Param("id")}

		if err := h.resolveTarget(c, target); err != nil {
			return err
		}

		userID := getUserIDFromContext(c)
		if err := h.likeRepository.RemoveLike(c.Request().Context(), userID, target); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "unliked"})
	}
}

// fans lists the users who currently like a target of the given kind
func (h *LikeHandler) fans(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := models.ReactableRef{Kind: kind, ID: c.Param("id")}

		if err := h.resolveTarget(c, target); err != nil {
			return err
		}

		users, err := h.likeRepository.GetFans(c.Request().Context(), target)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		fans := make([]models.FanResponse, len(users))
		for i, user := range users {
			fans[i] = models.FanResponse{Username: user.Username}
		}

		return c.JSON(http.StatusOK, fans)
	}
}

// likesCount retrieves the total number of likes for a target of the given kind
func (h *LikeHandler) likesCount(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := models.ReactableRef{Kind: kind, ID: c.Param("id")}

		if err := h.resolveTarget(c, target); err != nil {
			return err
		}

		count, err := h.likeRepository.CountByTarget(c.Request().Context(), target)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{"kind": target.Kind, "id": target.ID, "total_likes": count})
	}
}

// resolveTarget validates the target against the registry before any
// reaction is recorded or read, so orphan likes can never be created
func (h *LikeHandler) resolveTarget(c echo.Context, target models.ReactableRef) error {
	err := h.targetRegistry.Resolve(c.Request().Context(), target.Kind, target.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrTargetNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}
