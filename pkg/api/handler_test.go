package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salusbr/admincore/pkg/panels"
	"github.com/salusbr/admincore/pkg/routes"
	"github.com/salusbr/admincore/pkg/session"
)

func testRouter(t *testing.T, mgr *session.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(mgr, nil).Register(r)
	return r
}

func testManager() *session.Manager {
	payload := []any{
		map[string]any{"id": float64(1), "usuarioId": float64(10), "filialId": float64(1), "painelId": float64(5), "nome": "acesso_lab", "modulo": "laboratorio", "ativo": true},
	}
	return session.NewManager(
		session.WithSource(session.SourceFunc(func(context.Context, int, int) (any, error) {
			return payload, nil
		})),
		session.WithPanelFetcher(panels.FetcherFunc(func(_ context.Context, id int) (panels.Panel, error) {
			return panels.Panel{ID: id, Descricao: "Laboratorio"}, nil
		})),
		session.WithRouteTable(routes.NewTable([]routes.Config{{Key: "laboratorio", PainelID: 5}})),
	)
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestGetSessionUnauthenticated(t *testing.T) {
	r := testRouter(t, testManager())

	w, envelope := doRequest(t, r, http.MethodGet, "/sessao", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestSelectFilialReloadsAndReturnsSession(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10, Nome: "Ana", Tipo: "admin"})
	r := testRouter(t, mgr)

	w, envelope := doRequest(t, r, http.MethodPost, "/sessao/filial", `{"id":1,"nome":"Matriz"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	assert.True(t, mgr.HasPermission("acesso_lab"))
}

func TestSelectFilialValidation(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10})
	r := testRouter(t, mgr)

	w, envelope := doRequest(t, r, http.MethodPost, "/sessao/filial", `{"nome":"Matriz"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestReloadWithoutFilial(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10})
	r := testRouter(t, mgr)

	w, envelope := doRequest(t, r, http.MethodPost, "/sessao/recarregar", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no_filial", envelope["code"])
}

func TestListPermissionsAndPanels(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10, FilialSelecionada: &session.Filial{ID: 1, Nome: "Matriz"}})
	require.NoError(t, mgr.Reload(context.Background()))
	r := testRouter(t, mgr)

	w, envelope := doRequest(t, r, http.MethodGet, "/permissoes?modulo=laboratorio", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)

	w, envelope = doRequest(t, r, http.MethodGet, "/paineis", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok = envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestRouteAccess(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10, FilialSelecionada: &session.Filial{ID: 1, Nome: "Matriz"}})
	require.NoError(t, mgr.Reload(context.Background()))
	r := testRouter(t, mgr)

	_, envelope := doRequest(t, r, http.MethodGet, "/acesso/rota/laboratorio", "")
	data := envelope["data"].(map[string]any)
	assert.Equal(t, true, data["permitido"])

	_, envelope = doRequest(t, r, http.MethodGet, "/acesso/rota/faturamento", "")
	data = envelope["data"].(map[string]any)
	assert.Equal(t, false, data["permitido"])
}

func TestPanelAccess(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10, FilialSelecionada: &session.Filial{ID: 1, Nome: "Matriz"}})
	require.NoError(t, mgr.Reload(context.Background()))
	r := testRouter(t, mgr)

	_, envelope := doRequest(t, r, http.MethodGet, "/acesso/painel/5", "")
	data := envelope["data"].(map[string]any)
	assert.Equal(t, true, data["permitido"])

	_, envelope = doRequest(t, r, http.MethodGet, "/acesso/painel/99", "")
	data = envelope["data"].(map[string]any)
	assert.Equal(t, false, data["permitido"])
}

func TestLogout(t *testing.T) {
	mgr := testManager()
	mgr.Login(context.Background(), &session.User{ID: 10, FilialSelecionada: &session.Filial{ID: 1}})
	require.NoError(t, mgr.Reload(context.Background()))
	r := testRouter(t, mgr)

	w, _ := doRequest(t, r, http.MethodPost, "/sessao/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mgr.CurrentUser())
}
