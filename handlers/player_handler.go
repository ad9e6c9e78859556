package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rpgroster/errx"
	"rpgroster/models"
	"rpgroster/query"
	"rpgroster/services"
)

type PlayerHandler struct {
	playerService *services.PlayerService
	defaultPage   query.PageRequest
	log           *zap.Logger
}

func NewPlayerHandler(playerService *services.PlayerService, defaultPage query.PageRequest, log *zap.Logger) *PlayerHandler {
	if defaultPage.Size < 1 {
		defaultPage.Size = query.DefaultPageSize
	}
	if defaultPage.Order == "" {
		defaultPage.Order = query.DefaultOrder
	}
	return &PlayerHandler{
		playerService: playerService,
		defaultPage:   defaultPage,
		log:           log,
	}
}

func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	page, err := h.parsePage(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	players, err := h.playerService.List(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) CountPlayers(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	n, err := h.playerService.Count(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.PlayerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, errx.ErrBadRequest.WithMsg(err.Error()).WithCause(err))
		return
	}

	player, err := h.playerService.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	player, err := h.playerService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	var req models.PlayerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, errx.ErrBadRequest.WithMsg(err.Error()).WithCause(err))
		return
	}

	player, err := h.playerService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	player, err := h.playerService.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badParam("id", "must be an integer")
	}
	return id, nil
}

func badParam(name, reason string) error {
	return errx.ErrBadRequest.
		WithMsg(name+" "+reason).
		WithData("field", name).
		WithData("reason", reason)
}

// param returns the query value for key. Empty values count as absent.
func param(c *gin.Context, key string) (string, bool) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func stringParam(c *gin.Context, key string) *string {
	if v, ok := param(c, key); ok {
		return &v
	}
	return nil
}

func intParam(c *gin.Context, key string) (*int, error) {
	v, ok := param(c, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, badParam(key, "must be an integer")
	}
	return &n, nil
}

func int64Param(c *gin.Context, key string) (*int64, error) {
	v, ok := param(c, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, badParam(key, "must be an integer")
	}
	return &n, nil
}

func boolParam(c *gin.Context, key string) (*bool, error) {
	v, ok := param(c, key)
	if !ok {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badParam(key, "must be true or false")
	}
	return &b, nil
}

func parseFilter(c *gin.Context) (query.PlayerFilter, error) {
	var (
		f   query.PlayerFilter
		err error
	)

	f.Name = stringParam(c, "name")
	f.Title = stringParam(c, "title")

	if v, ok := param(c, "race"); ok {
		race, perr := models.ParseRace(v)
		if perr != nil {
			return f, badParam("race", perr.Error())
		}
		f.Race = &race
	}
	if v, ok := param(c, "profession"); ok {
		profession, perr := models.ParseProfession(v)
		if perr != nil {
			return f, badParam("profession", perr.Error())
		}
		f.Profession = &profession
	}

	if f.After, err = int64Param(c, "after"); err != nil {
		return f, err
	}
	if f.Before, err = int64Param(c, "before"); err != nil {
		return f, err
	}
	if f.Banned, err = boolParam(c, "banned"); err != nil {
		return f, err
	}
	if f.MinExperience, err = intParam(c, "minExperience"); err != nil {
		return f, err
	}
	if f.MaxExperience, err = intParam(c, "maxExperience"); err != nil {
		return f, err
	}
	if f.MinLevel, err = intParam(c, "minLevel"); err != nil {
		return f, err
	}
	if f.MaxLevel, err = intParam(c, "maxLevel"); err != nil {
		return f, err
	}

	if v, ok := param(c, "filter"); ok {
		if f.Expression, err = query.ParseExpression(v); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (h *PlayerHandler) parsePage(c *gin.Context) (query.PageRequest, error) {
	page := h.defaultPage

	number, err := intParam(c, "pageNumber")
	if err != nil {
		return page, err
	}
	if number != nil {
		page.Number = *number
	}

	size, err := intParam(c, "pageSize")
	if err != nil {
		return page, err
	}
	if size != nil {
		page.Size = *size
	}

	if v, ok := param(c, "order"); ok {
		order, err := models.ParsePlayerOrder(v)
		if err != nil {
			return page, badParam("order", err.Error())
		}
		page.Order = order
	}
	return page, nil
}
