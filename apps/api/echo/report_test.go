package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
	testutil "github.com/trezcool/alama/tests"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) Server {
	t.Helper()

	conf := &core.Config{
		AppName:  "Alama",
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{Addr: ":0"},
	}

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	report.InitValidators(validate, translator)

	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     nopLogger{},
		ReportSvc:  report.NewService(),
		Validate:   validate,
		Translator: translator,
	})
}

func newRequest(method, path string, body []byte) (*http.Request, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		buf.Write(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func jsonBody(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("jsonBody() failed: %v", err)
	}
	return data
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func Test_reportApi_retrieve(t *testing.T) {
	app := setup(t)

	payload := testutil.EncodePayload(t, []report.Course{
		testutil.Course(1, "Algebra", 4, "A", "Jan-2024"),
		testutil.Course(2, "Mechanics", 2, "B", "Jan-2024"),
	})
	wantReport := jsonBody(t, map[string]interface{}{
		"courses": []report.Course{
			testutil.Course(1, "Algebra", 4, "A", "Jan-2024"),
			testutil.Course(2, "Mechanics", 2, "B", "Jan-2024"),
		},
		"semesters": []map[string]interface{}{
			{
				"label": "Jan-2024",
				"courses": []report.Course{
					testutil.Course(1, "Algebra", 4, "A", "Jan-2024"),
					testutil.Course(2, "Mechanics", 2, "B", "Jan-2024"),
				},
				"gpa": 8.67,
			},
		},
		"cgpa":          8.67,
		"semester_mean": 8.67,
	})
	malformed := jsonBody(t, map[string]string{"error": "malformed data"})

	tests := []httpTest{
		{
			name:     "query param",
			method:   http.MethodGet,
			path:     "/v1/report?data=" + url.QueryEscape(payload),
			wantCode: http.StatusOK,
			wantData: wantReport,
		},
		{
			name:     "plain mode",
			method:   http.MethodGet,
			path:     "/v1/report?data=" + url.QueryEscape(payload) + "&plain=true",
			wantCode: http.StatusOK,
			wantData: []byte("8.67"),
		},
		{
			name:     "json body",
			method:   http.MethodPost,
			path:     "/v1/report",
			body:     jsonBody(t, map[string]string{"data": payload}),
			wantCode: http.StatusOK,
			wantData: wantReport,
		},
		{
			name:     "missing data",
			method:   http.MethodGet,
			path:     "/v1/report",
			wantCode: http.StatusBadRequest,
			wantData: jsonBody(t, map[string]string{"data": "this field is required"}),
		},
		{
			name:     "bad base64",
			method:   http.MethodGet,
			path:     "/v1/report?data=not-valid-!!",
			wantCode: http.StatusBadRequest,
			wantData: malformed,
		},
		{
			name:     "garbage payload",
			method:   http.MethodGet,
			path:     "/v1/report?data=" + url.QueryEscape(testutil.EncodeText(t, "complete garbage")),
			wantCode: http.StatusBadRequest,
			wantData: malformed,
		},
		{
			name:     "nothing usable",
			method:   http.MethodGet,
			path:     "/v1/report?data=" + url.QueryEscape(testutil.EncodeText(t, `[{"foo": 1}]`)),
			wantCode: http.StatusBadRequest,
			wantData: malformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			assertBodyEqual(t, rec.Body.Bytes(), tt.wantData)
		})
	}
}

func Test_reportApi_cgpa(t *testing.T) {
	app := setup(t)

	t.Run("manual entry", func(t *testing.T) {
		body := jsonBody(t, []map[string]interface{}{
			{"course_title": "Algebra", "credits": 4, "grade": "A"},
			{"course_title": "Mechanics", "credits": 2, "grade": "B"},
			{"course_title": "Yoga", "credits": 2, "grade": "P"},
		})
		req, rec := newRequest(http.MethodPost, "/v1/cgpa", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var rep report.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		assert.Equal(t, 8.67, rep.CGPA)
		assert.Len(t, rep.Courses, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{rep.Courses[0].ID, rep.Courses[1].ID, rep.Courses[2].ID})
		if assert.Len(t, rep.Semesters, 1) {
			assert.Equal(t, report.UnscheduledLabel, rep.Semesters[0].Label)
		}
	})

	t.Run("unknown grade rejected with field error", func(t *testing.T) {
		body := jsonBody(t, []map[string]interface{}{
			{"course_title": "Algebra", "credits": 4, "grade": "X"},
		})
		req, rec := newRequest(http.MethodPost, "/v1/cgpa", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		assertBodyEqual(t, rec.Body.Bytes(), jsonBody(t, map[string]string{"grade": "must be one of S, A, B, C, D, E, F, P"}))
	})

	t.Run("bad exam month rejected", func(t *testing.T) {
		body := jsonBody(t, []map[string]interface{}{
			{"course_title": "Algebra", "credits": 4, "grade": "A", "exam_month": "January 2024"},
		})
		req, rec := newRequest(http.MethodPost, "/v1/cgpa", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		assertBodyEqual(t, rec.Body.Bytes(), jsonBody(t, map[string]string{"exam_month": "must be a month-year label like Jan-2024"}))
	})

	t.Run("empty course list rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/cgpa", jsonBody(t, []map[string]interface{}{}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		assertBodyEqual(t, rec.Body.Bytes(), jsonBody(t, map[string]string{"error": "at least one course is required"}))
	})
}

func Test_reportApi_encode(t *testing.T) {
	app := setup(t)

	t.Run("round trips through retrieve", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"courses": []map[string]interface{}{
				{"course_title": "Algebra", "credits": 4, "grade": "A", "exam_month": "Jan-2024"},
			},
		})
		req, rec := newRequest(http.MethodPost, "/v1/encode", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Encoded string `json:"encoded"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Encoded == "" {
			t.Fatal("encode() returned an empty payload")
		}

		req, rec = newRequest(http.MethodGet, "/v1/report?data="+url.QueryEscape(resp.Encoded)+"&plain=true", nil)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		assert.Equal(t, "9.00", rec.Body.String())
	})

	t.Run("empty course list rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/encode", jsonBody(t, map[string]interface{}{"courses": []interface{}{}}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_health(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/health", nil)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	assertBodyEqual(t, rec.Body.Bytes(), jsonBody(t, map[string]string{"status": "ok"}))
}

// assertBodyEqual compares JSON bodies by value, plain text bodies verbatim.
func assertBodyEqual(t *testing.T, got, want []byte) {
	t.Helper()
	var j1, j2 interface{}
	if json.Unmarshal(want, &j1) != nil || json.Unmarshal(got, &j2) != nil {
		assert.Equal(t, string(want), string(bytes.TrimSpace(got)))
		return
	}
	assert.Equal(t, j1, j2)
}
