package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/deppfellow/monitoria-backend/internal/handler"
	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/model"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/deppfellow/monitoria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op    string
	actor model.Actor
	rawID string
	id    int64
	cin   model.CreateMonitoriaInput
	uin   model.UpdateMonitoriaInput
}

type fakeService struct {
	calls  []call
	result *model.Monitoria
	list   []model.Monitoria
	err    error
}

func (f *fakeService) List(context.Context) ([]model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "list"})
	return f.list, f.err
}

func (f *fakeService) Create(_ context.Context, actor model.Actor, in model.CreateMonitoriaInput) (*model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "create", actor: actor, cin: in})
	return f.result, f.err
}

func (f *fakeService) GetByID(_ context.Context, actor model.Actor, id string) (*model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "get", actor: actor, rawID: id})
	return f.result, f.err
}

func (f *fakeService) Update(_ context.Context, actor model.Actor, id int64, in model.UpdateMonitoriaInput) (*model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "update", actor: actor, id: id, uin: in})
	return f.result, f.err
}

func (f *fakeService) Delete(_ context.Context, actor model.Actor, id string) (*model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "delete", actor: actor, rawID: id})
	return f.result, f.err
}

func (f *fakeService) Reactivate(_ context.Context, actor model.Actor, id string) (*model.Monitoria, error) {
	f.calls = append(f.calls, call{op: "reactivate", actor: actor, rawID: id})
	return f.result, f.err
}

// fakeAuth accepts "Bearer <user>:<role>" and rejects everything else.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || token == "" {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}
		user, role, _ := strings.Cut(token, ":")
		c.Set(middleware.UserIDKey, user)
		c.Set(middleware.UserRoleKey, role)
		return next(c)
	}
}

func newTestRouter(svc *fakeService) *echo.Echo {
	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	}

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	registerMonitoriaRoutes(e.Group("/api/v1/monitorias"), handler.NewMonitoriaHandler(s, svc), fakeAuth)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer user_ana:org:member")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleMonitoria() *model.Monitoria {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Monitoria{
		ID:                  7,
		DisciplinaID:        1,
		MonitorID:           10,
		Local:               "Sala 3",
		HorariosDisponiveis: json.RawMessage(`{"seg":["10:00"]}`),
		Status:              model.StatusActive,
		CreatedAt:           created,
		UpdatedAt:           created,
	}
}

func TestRoutesRequireAuthentication(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/monitorias"},
		{http.MethodPost, "/api/v1/monitorias"},
		{http.MethodGet, "/api/v1/monitorias/1"},
		{http.MethodPatch, "/api/v1/monitorias/1"},
		{http.MethodDelete, "/api/v1/monitorias/1"},
		{http.MethodPatch, "/api/v1/monitorias/1/reativar"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(r.method, r.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Empty(t, svc.calls)
}

func TestListMonitorias(t *testing.T) {
	svc := &fakeService{list: []model.Monitoria{*sampleMonitoria()}}
	e := newTestRouter(svc)

	rec := do(e, http.MethodGet, "/api/v1/monitorias", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Monitoria
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
}

func TestCreateMonitoriaReturnsServiceResult(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPost, "/api/v1/monitorias",
		`{"disciplina_id":1,"monitor_id":10,"local":"  Sala 3 ","horarios_disponiveis":{"seg":["10:00"]}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	want, err := json.Marshal(sampleMonitoria())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), rec.Body.String())

	require.Len(t, svc.calls, 1)
	c := svc.calls[0]
	assert.Equal(t, "create", c.op)
	assert.Equal(t, model.Actor{UserID: "user_ana", Role: "org:member"}, c.actor)
	assert.Equal(t, int64(1), c.cin.DisciplinaID)
	assert.Equal(t, int64(10), c.cin.MonitorID)
	assert.Equal(t, "Sala 3", c.cin.Local)
	assert.JSONEq(t, `{"seg":["10:00"]}`, string(c.cin.HorariosDisponiveis))
}

func TestCreateMonitoriaAcceptsIntegerStrings(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPost, "/api/v1/monitorias", `{"disciplina_id":"1","monitor_id":"10","local":"Sala 3"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, int64(1), svc.calls[0].cin.DisciplinaID)
	assert.Equal(t, int64(10), svc.calls[0].cin.MonitorID)
}

func TestCreateMonitoriaRejectsNonIntegerIDs(t *testing.T) {
	for _, id := range []string{`"1.5"`, `1.5`, `"um"`, `true`, `[1]`} {
		t.Run(id, func(t *testing.T) {
			svc := &fakeService{}
			e := newTestRouter(svc)

			rec := do(e, http.MethodPost, "/api/v1/monitorias", `{"disciplina_id":`+id+`,"monitor_id":10,"local":"Sala"}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.calls)

			body := decodeError(t, rec)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, "disciplina_id", body.Errors[0].Field)
			assert.Equal(t, "O ID da disciplina deve ser um número inteiro.", body.Errors[0].Error)
		})
	}
}

func TestCreateMonitoriaValidation(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		fields []string
	}{
		{"missing everything", `{}`, []string{"disciplina_id", "monitor_id", "local"}},
		{"missing discipline", `{"monitor_id":10,"local":"Sala"}`, []string{"disciplina_id"}},
		{"missing monitor", `{"disciplina_id":1,"local":"Sala"}`, []string{"monitor_id"}},
		{"blank local", `{"disciplina_id":1,"monitor_id":10,"local":"   "}`, []string{"local"}},
		{"zero discipline", `{"disciplina_id":0,"monitor_id":10,"local":"Sala"}`, []string{"disciplina_id"}},
		{"string monitor", `{"disciplina_id":1,"monitor_id":"dez","local":"Sala"}`, []string{"monitor_id"}},
		{"numeric local", `{"disciplina_id":1,"monitor_id":10,"local":5}`, []string{"local"}},
		{"schedule not an object", `{"disciplina_id":1,"monitor_id":10,"local":"Sala","horarios_disponiveis":[1]}`, []string{"horarios_disponiveis"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{result: sampleMonitoria()}
			e := newTestRouter(svc)

			rec := do(e, http.MethodPost, "/api/v1/monitorias", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.calls)

			body := decodeError(t, rec)
			require.NotEmpty(t, body.Errors)
			var fields []string
			for _, fe := range body.Errors {
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tc.fields, fields)
		})
	}
}

func TestCreateMonitoriaValidationMessages(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPost, "/api/v1/monitorias", `{"monitor_id":10,"local":"Sala"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "O ID da disciplina é obrigatório.", body.Errors[0].Error)
}

func TestGetMonitoriaForwardsRawID(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodGet, "/api/v1/monitorias/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "abc", svc.calls[0].rawID)
}

func TestUpdateMonitoriaRejectsBadIDs(t *testing.T) {
	for _, id := range []string{"0", "-3", "abc", "1.5"} {
		t.Run(id, func(t *testing.T) {
			svc := &fakeService{result: sampleMonitoria()}
			e := newTestRouter(svc)

			rec := do(e, http.MethodPatch, "/api/v1/monitorias/"+id, `{"local":"Sala 9"}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.calls)

			body := decodeError(t, rec)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, "id", body.Errors[0].Field)
			assert.Equal(t, "O ID da monitoria deve ser um número inteiro positivo.", body.Errors[0].Error)
		})
	}
}

func TestUpdateMonitoriaRejectsUnknownStatus(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPatch, "/api/v1/monitorias/7", `{"status":"arquivada"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.calls)

	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "status", body.Errors[0].Field)
}

func TestUpdateMonitoriaRejectsEmptyLocal(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPatch, "/api/v1/monitorias/7", `{"local":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.calls)
	assert.Equal(t, "O local não pode ser vazio.", decodeError(t, rec).Errors[0].Error)
}

func TestUpdateMonitoriaPassesPartialInput(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPatch, "/api/v1/monitorias/7",
		`{"status":"concluida","horarios_disponiveis":"{\"ter\":[\"14:00\"]}"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, svc.calls, 1)
	c := svc.calls[0]
	assert.Equal(t, int64(7), c.id)
	assert.Nil(t, c.uin.Local)
	require.NotNil(t, c.uin.Status)
	assert.Equal(t, model.StatusCompleted, *c.uin.Status)
	assert.JSONEq(t, `{"ter":["14:00"]}`, string(c.uin.HorariosDisponiveis))
}

func TestRequestsDoNotShareState(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	require.Equal(t, http.StatusOK, do(e, http.MethodPatch, "/api/v1/monitorias/7", `{"local":"Sala 9"}`).Code)
	require.Equal(t, http.StatusOK, do(e, http.MethodPatch, "/api/v1/monitorias/8", `{"status":"inativa"}`).Code)

	require.Len(t, svc.calls, 2)
	require.NotNil(t, svc.calls[0].uin.Local)
	assert.Nil(t, svc.calls[1].uin.Local)
	assert.Equal(t, int64(8), svc.calls[1].id)
}

func TestDeleteMonitoriaReturnsNoContent(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodDelete, "/api/v1/monitorias/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "7", svc.calls[0].rawID)
}

func TestIDOnlyRoutesIgnoreRequestBody(t *testing.T) {
	routes := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/monitorias/7", http.StatusOK},
		{http.MethodDelete, "/api/v1/monitorias/7", http.StatusNoContent},
		{http.MethodPatch, "/api/v1/monitorias/7/reativar", http.StatusOK},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			svc := &fakeService{result: sampleMonitoria()}
			e := newTestRouter(svc)

			rec := do(e, r.method, r.path, `{not json`)
			assert.Equal(t, r.status, rec.Code)
			require.Len(t, svc.calls, 1)
			assert.Equal(t, "7", svc.calls[0].rawID)
		})
	}
}

func TestReactivateMonitoria(t *testing.T) {
	svc := &fakeService{result: sampleMonitoria()}
	e := newTestRouter(svc)

	rec := do(e, http.MethodPatch, "/api/v1/monitorias/7/reativar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "reactivate", svc.calls[0].op)
}

func TestServiceErrorsAreForwardedUnchanged(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", service.ErrMonitoriaNotFound, http.StatusNotFound, "MONITORIA_NOT_FOUND"},
		{"forbidden", service.ErrAdminOnly, http.StatusForbidden, "FORBIDDEN"},
		{"conflict", service.ErrAlreadyActive, http.StatusConflict, "MONITORIA_ALREADY_ACTIVE"},
	}

	requests := []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/monitorias", ""},
		{http.MethodPost, "/api/v1/monitorias", `{"disciplina_id":1,"monitor_id":10,"local":"Sala"}`},
		{http.MethodGet, "/api/v1/monitorias/7", ""},
		{http.MethodPatch, "/api/v1/monitorias/7", `{"local":"Sala"}`},
		{http.MethodDelete, "/api/v1/monitorias/7", ""},
		{http.MethodPatch, "/api/v1/monitorias/7/reativar", ""},
	}

	for _, tc := range cases {
		for _, r := range requests {
			t.Run(tc.name+" "+r.method+" "+r.path, func(t *testing.T) {
				svc := &fakeService{err: tc.err}
				e := newTestRouter(svc)

				rec := do(e, r.method, r.path, r.body)
				assert.Equal(t, tc.status, rec.Code)
				assert.Equal(t, tc.code, decodeError(t, rec).Code)
				assert.Len(t, svc.calls, 1)
			})
		}
	}
}
