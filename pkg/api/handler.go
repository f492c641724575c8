// Package api exposes the session core over HTTP for thin admin front-ends
// that keep no permission logic of their own.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salusbr/admincore/pkg/apperr"
	"github.com/salusbr/admincore/pkg/logger"
	"github.com/salusbr/admincore/pkg/permissions"
	"github.com/salusbr/admincore/pkg/response"
	"github.com/salusbr/admincore/pkg/session"
	"github.com/salusbr/admincore/pkg/validator"
)

// Handler serves the session and access-query endpoints.
type Handler struct {
	mgr *session.Manager
	v   *validator.Validator
	log logger.LogManager
}

// NewHandler creates a Handler around the given session manager.
func NewHandler(mgr *session.Manager, log logger.LogManager) *Handler {
	return &Handler{
		mgr: mgr,
		v:   validator.New(),
		log: log,
	}
}

// Register mounts the endpoints on the given router.
func (h *Handler) Register(r gin.IRouter) {
	sess := r.Group("/sessao")
	sess.GET("", h.getSession)
	sess.POST("/filial", h.selectFilial)
	sess.POST("/recarregar", h.reload)
	sess.POST("/logout", h.logout)

	r.GET("/permissoes", h.listPermissions)
	r.GET("/paineis", h.listPanels)
	r.GET("/acesso/rota/:chave", h.routeAccess)
	r.GET("/acesso/painel/:id", h.panelAccess)
}

type sessionView struct {
	Usuario    *session.User `json:"usuario"`
	Carregando bool          `json:"carregando"`
	Erro       string        `json:"erro,omitempty"`
}

func (h *Handler) getSession(c *gin.Context) {
	user := h.mgr.CurrentUser()
	if user == nil {
		response.JSONError(c, apperr.New(apperr.ErrorCodeUnauthorized))
		return
	}

	view := sessionView{Usuario: user, Carregando: h.mgr.Loading()}
	if err := h.mgr.Err(); err != nil {
		view.Erro = apperr.ErrorCodeFetchFailed.Message()
	}
	response.Success(c, view)
}

type selectFilialRequest struct {
	ID   int    `json:"id" binding:"required"`
	Nome string `json:"nome"`
}

func (h *Handler) selectFilial(c *gin.Context) {
	req, appErr := validator.BindJSON[selectFilialRequest](h.v, c)
	if appErr != nil {
		response.JSONError(c, appErr)
		return
	}

	if err := h.mgr.SelectFilial(c.Request.Context(), session.Filial{ID: req.ID, Nome: req.Nome}); err != nil {
		response.JSONError(c, apperr.New(apperr.ErrorCodeUnauthorized))
		return
	}

	if err := h.mgr.Reload(c.Request.Context()); err != nil {
		h.reloadError(c, err)
		return
	}
	response.Success(c, sessionView{Usuario: h.mgr.CurrentUser()})
}

func (h *Handler) reload(c *gin.Context) {
	if err := h.mgr.Reload(c.Request.Context()); err != nil {
		h.reloadError(c, err)
		return
	}
	response.Success(c, sessionView{Usuario: h.mgr.CurrentUser(), Carregando: h.mgr.Loading()})
}

func (h *Handler) reloadError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNoFilial) {
		response.JSONError(c, apperr.New(apperr.ErrorCodeNoFilial))
		return
	}
	if h.log != nil {
		h.log.ErrorF("recarga de permissoes falhou: %v", err)
	}
	response.JSONError(c, apperr.New(apperr.ErrorCodeFetchFailed).Wrap(err))
}

func (h *Handler) logout(c *gin.Context) {
	h.mgr.Logout(c.Request.Context())
	response.JSONSuccess(c, http.StatusOK, nil, nil)
}

type permissionQuery struct {
	UsuarioID *int    `form:"usuarioId"`
	Modulo    *string `form:"modulo"`
	Nome      *string `form:"nome"`
	PainelID  *int    `form:"painelId"`
	Ativo     *bool   `form:"ativo"`
}

func (h *Handler) listPermissions(c *gin.Context) {
	query, appErr := validator.BindQuery[permissionQuery](h.v, c)
	if appErr != nil {
		response.JSONError(c, appErr)
		return
	}

	records := h.mgr.FilteredPermissions(permissions.Criteria{
		UsuarioID: query.UsuarioID,
		Modulo:    query.Modulo,
		Nome:      query.Nome,
		PainelID:  query.PainelID,
		Ativo:     query.Ativo,
	})
	response.Success(c, records)
}

func (h *Handler) listPanels(c *gin.Context) {
	response.Success(c, h.mgr.AccessiblePanels())
}

type routeURI struct {
	Chave string `uri:"chave" binding:"required"`
}

func (h *Handler) routeAccess(c *gin.Context) {
	uri, appErr := validator.BindURI[routeURI](h.v, c)
	if appErr != nil {
		response.JSONError(c, appErr)
		return
	}

	response.Success(c, gin.H{
		"chave":     uri.Chave,
		"permitido": h.mgr.HasRouteAccess(uri.Chave),
	})
}

type panelURI struct {
	ID int `uri:"id" binding:"required"`
}

func (h *Handler) panelAccess(c *gin.Context) {
	uri, appErr := validator.BindURI[panelURI](h.v, c)
	if appErr != nil {
		response.JSONError(c, appErr)
		return
	}

	response.Success(c, gin.H{
		"painelId":  uri.ID,
		"permitido": h.mgr.HasPanelAccess(uri.ID),
	})
}
