package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ID       string          `param:"id" json:"-" validate:"posint"`
	Name     string          `json:"name" validate:"required"`
	Count    *int64          `json:"count" validate:"omitnil,min=1"`
	Kind     *string         `json:"kind" validate:"omitnil,oneof=a b"`
	Object   json.RawMessage `json:"object" validate:"omitempty,jsonobject"`
	Document json.RawMessage `json:"document" validate:"omitempty,jsondoc"`
}

func (r *sampleRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *sampleRequest) Validate() error { return Struct(r) }

func (r *sampleRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.required": "name please",
		"count.type":    "count must be a number",
	}
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "window", Message: "end must be after start"}}
}

func bindRequest(t *testing.T, id, body string, payload Validatable) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/things/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/things/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return BindAndValidate(c, payload)
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	out := map[string]string{}
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestBindAndValidateSuccess(t *testing.T) {
	var req sampleRequest
	err := bindRequest(t, "12", `{"name":"  ana ","count":2,"kind":"a","object":{"x":1},"document":"[1,2]"}`, &req)
	require.NoError(t, err)

	assert.Equal(t, "12", req.ID)
	assert.Equal(t, "ana", req.Name)
	assert.Equal(t, int64(2), *req.Count)
}

func TestBindAndValidateUsesWireNamesAndMessages(t *testing.T) {
	var req sampleRequest
	err := bindRequest(t, "0", `{"name":"   ","count":0,"kind":"c","object":[1],"document":"nope"}`, &req)

	assert.Equal(t, map[string]string{
		"id":       "must be a positive integer",
		"name":     "name please",
		"count":    "must be at least 1",
		"kind":     "must be one of: a, b",
		"object":   "must be a JSON object",
		"document": "must be valid JSON",
	}, fieldErrors(t, err))
}

func TestBindAndValidateTypeMismatch(t *testing.T) {
	var req sampleRequest
	err := bindRequest(t, "1", `{"name":"ana","count":"two"}`, &req)

	assert.Equal(t, map[string]string{"count": "count must be a number"}, fieldErrors(t, err))
}

func TestBindAndValidateTypeMismatchDefaultMessage(t *testing.T) {
	var req sampleRequest
	err := bindRequest(t, "1", `{"name":["ana"]}`, &req)

	assert.Equal(t, map[string]string{"name": "must be of type string"}, fieldErrors(t, err))
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	var req sampleRequest
	err := bindRequest(t, "1", `{"name":`, &req)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := bindRequest(t, "1", `{}`, &customRequest{})

	assert.Equal(t, map[string]string{"window": "end must be after start"}, fieldErrors(t, err))
}

func TestIsPositiveInt(t *testing.T) {
	assert.True(t, IsPositiveInt("1"))
	assert.True(t, IsPositiveInt("9007199254740993"))
	for _, s := range []string{"", "0", "-1", "1.0", "abc", " 1", "1e3"} {
		assert.False(t, IsPositiveInt(s), s)
	}
}

func TestDecodeJSONDocument(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{`[1,2]`, `[1,2]`, true},
		{`"{\"a\":1}"`, `{"a":1}`, true},
		{`" [true] "`, `[true]`, true},
		{`"hello"`, ``, false},
		{`42`, ``, false},
		{`"{broken"`, ``, false},
		{`{`, ``, false},
	}

	for _, tc := range cases {
		got, ok := DecodeJSONDocument([]byte(tc.in))
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.JSONEq(t, tc.want, string(got), tc.in)
		}
	}
}
