package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CollectionHandler handles bookmark collections
type CollectionHandler struct {
	collectionRepository repositories.CollectionRepository
	postRepository       repositories.PostRepository
	presenter            *PostPresenter
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionRepo repositories.CollectionRepository, postRepo repositories.PostRepository, presenter *PostPresenter) *CollectionHandler {
	return &CollectionHandler{
		collectionRepository: collectionRepo,
		postRepository:       postRepo,
		presenter:            presenter,
	}
}

// RegisterCollectionRoutes registers collection and bookmark routes
func (h *CollectionHandler) RegisterCollectionRoutes(g *echo.Group) {
	g.GET("/collections", h.GetCollections)
	g.POST("/collections", h.CreateCollection)
	g.PUT("/collections/:id", h.RenameCollection)
	g.DELETE("/collections/:id", h.DeleteCollection)
	g.GET("/collections/:id/items", h.GetItems)
	g.POST("/collections/:id/items", h.AddItem)
	g.DELETE("/collections/:id/items/:postId", h.RemoveItem)
	g.POST("/posts/:id/bookmark", h.ToggleBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
}

// ownedCollection loads the :id collection and checks the caller owns it.
func (h *CollectionHandler) ownedCollection(c echo.Context) (*models.Collection, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	collection, err := h.collectionRepository.GetCollectionByID(id)
	if err != nil {
		return nil, lookupError(err, "Collection")
	}
	if collection.UserID != getUserIDFromContext(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this collection")
	}
	return collection, nil
}

// GetCollections lists the caller's collections, creating the default one on first use
func (h *CollectionHandler) GetCollections(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if _, err := h.collectionRepository.GetOrCreateDefault(userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	collections, err := h.collectionRepository.GetCollectionsByUserID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, collections)
}

func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	var req models.CollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
	}
	collection := &models.Collection{UserID: getUserIDFromContext(c), Name: name}
	if err := h.collectionRepository.CreateCollection(collection); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, collection)
}

func (h *CollectionHandler) RenameCollection(c echo.Context) error {
	collection, err := h.ownedCollection(c)
	if err != nil {
		return err
	}
	var req models.CollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
	}
	if err := h.collectionRepository.RenameCollection(collection.ID, name); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	collection.Name = name
	return respond(c, http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	collection, err := h.ownedCollection(c)
	if err != nil {
		return err
	}
	if err := h.collectionRepository.DeleteCollection(collection.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CollectionHandler) GetItems(c echo.Context) error {
	collection, err := h.ownedCollection(c)
	if err != nil {
		return err
	}
	return h.listPosts(c, collection.ID)
}

func (h *CollectionHandler) AddItem(c echo.Context) error {
	collection, err := h.ownedCollection(c)
	if err != nil {
		return err
	}
	var req models.CollectionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.postRepository.GetPostByID(req.PostID); err != nil {
		return lookupError(err, "Post")
	}
	if err := h.collectionRepository.AddItem(collection.ID, req.PostID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyInList) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, echo.Map{"collection_id": collection.ID, "post_id": req.PostID})
}

func (h *CollectionHandler) RemoveItem(c echo.Context) error {
	collection, err := h.ownedCollection(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return err
	}
	if err := h.collectionRepository.RemoveItem(collection.ID, postID); err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleBookmark adds the post to, or removes it from, the default collection
func (h *CollectionHandler) ToggleBookmark(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return lookupError(err, "Post")
	}
	def, err := h.collectionRepository.GetOrCreateDefault(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	saved, err := h.collectionRepository.IsInCollection(def.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if saved {
		err = h.collectionRepository.RemoveItem(def.ID, postID)
	} else {
		err = h.collectionRepository.AddItem(def.ID, postID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, echo.Map{"bookmarked": !saved, "collection_id": def.ID})
}

// GetBookmarks lists the posts in the default collection
func (h *CollectionHandler) GetBookmarks(c echo.Context) error {
	def, err := h.collectionRepository.GetOrCreateDefault(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.listPosts(c, def.ID)
}

func (h *CollectionHandler) listPosts(c echo.Context, collectionID uint) error {
	posts, err := h.collectionRepository.GetItems(collectionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.posts(getUserIDFromContext(c), posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}
