package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/fomu/apps/api/echo"
	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
	"github.com/trezcool/fomu/services/email"
	"github.com/trezcool/fomu/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type apiTest struct {
	app     *Server
	conf    *core.Config
	repo    customform.Repository
	mailSvc *emailsvc.ConsoleServiceMock
	logger  *testutil.Logger

	adminToken string
	userToken  string
}

func setup(t *testing.T) apiTest {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger()
	core.ParseEmailTemplates(logger)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	customform.InitValidators(validate, translator)

	repo := testutil.PrepareRepo(t)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	at := apiTest{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		app: NewServer(ServerDeps{
			Conf:       conf,
			Logger:     logger,
			FormSvc:    customform.NewService(repo, mailSvc, logger),
			Validate:   validate,
			Translator: translator,
		}),
	}
	at.adminToken = getToken(t, conf, "author@test.cd", true)
	at.userToken = getToken(t, conf, "respondent@test.cd", false)
	return at
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, subject string, isAdmin bool) string {
	token, err := GenerateToken(conf, NewClaims(conf, subject, isAdmin))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func (at apiTest) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	at.app.ServeHTTP(rec, req)

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData != nil {
		ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
		if err != nil {
			t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
		}
		if !ok {
			t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
		}
	}
	return rec
}

// formOutline decodes a form response into "kind#order" refs.
func formOutline(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var res struct {
		Elements []struct {
			Kind    string `json:"kind"`
			Element struct {
				Order int `json:"order"`
			} `json:"element"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("formOutline(): %v", err)
	}
	outline := make([]string, 0, len(res.Elements))
	for _, el := range res.Elements {
		outline = append(outline, customform.Ref{Kind: customform.Kind(el.Kind), Order: el.Element.Order}.String())
	}
	return outline
}
