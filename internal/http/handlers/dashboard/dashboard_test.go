package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/edutrack/internal/submission"
	"github.com/aanand-mishra/edutrack/internal/validate"
)

type call struct {
	name string
	age  int
}

// fakeSubmitter records calls and answers with a fixed result.
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []call
	ctxErrs []error
	result  submission.Result
}

func (f *fakeSubmitter) Submit(ctx context.Context, name string, age int) submission.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name, age})
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.result
}

func newRenderer(t *testing.T, env string) *Renderer {
	t.Helper()
	r, err := NewRenderer(env)
	require.NoError(t, err)
	return r
}

func postForm(h http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestIndexRendersEmptyForm(t *testing.T) {
	rec := httptest.NewRecorder()
	Index(newRenderer(t, "dev"))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `name="name"`)
	assert.Contains(t, body, `placeholder="e.g., John Doe"`)
	assert.Contains(t, body, `min="1"`)
	assert.Contains(t, body, `max="100"`)
	assert.Contains(t, body, `value="18"`)
	assert.Contains(t, body, "Add Student")
	assert.NotContains(t, body, `class="feedback`)
}

func TestIndexMinifiedInProd(t *testing.T) {
	rec := httptest.NewRecorder()
	Index(newRenderer(t, "prod"))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "\n  ")
	assert.Contains(t, rec.Body.String(), "Add Student")
}

func TestSubmitFeedback(t *testing.T) {
	tests := []struct {
		name    string
		result  submission.Result
		level   string
		text    string
		student string
	}{
		{
			name:    "success",
			result:  submission.Result{Outcome: submission.Success, StatusCode: 200},
			level:   LevelSuccess,
			text:    "Student &#39;John Doe&#39; added successfully!",
			student: "John Doe",
		},
		{
			name:    "server error",
			result:  submission.Result{Outcome: submission.ServerError, StatusCode: 400, Message: "Invalid age"},
			level:   LevelError,
			text:    "Error: Invalid age",
			student: "John Doe",
		},
		{
			name:    "transport error",
			result:  submission.Result{Outcome: submission.TransportError, Message: "connection refused"},
			level:   LevelError,
			text:    "Backend Error: connection refused",
			student: "John Doe",
		},
		{
			name: "validation error",
			result: submission.Result{
				Outcome: submission.ValidationError,
				Fields:  validate.FieldErrors{"name": "name cannot be blank"},
			},
			level:   LevelWarning,
			text:    "Please enter a name.",
			student: "  ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSubmitter{result: tt.result}
			rec := postForm(Submit(fake, newRenderer(t, "dev")), url.Values{
				"name": {tt.student},
				"age":  {"21"},
			})

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `class="feedback `+tt.level+`"`)
			assert.Contains(t, body, tt.text)

			require.Len(t, fake.calls, 1)
			assert.Equal(t, call{tt.student, 21}, fake.calls[0])

			// form is cleared after the attempt
			assert.Contains(t, body, `value="18"`)
			assert.Contains(t, body, `placeholder="e.g., John Doe" value=""`)
		})
	}
}

func TestSubmitClampsAge(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.Success}}
	h := Submit(fake, newRenderer(t, "dev"))

	for _, raw := range []string{"0", "-5", "250", "abc", ""} {
		postForm(h, url.Values{"name": {"Jane"}, "age": {raw}})
	}

	ages := make([]int, 0, len(fake.calls))
	for _, c := range fake.calls {
		ages = append(ages, c.age)
	}
	assert.Equal(t, []int{1, 1, 100, 18, 18}, ages)
}

func TestSubmitEscapesFeedback(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.ServerError, Message: "<script>alert(1)</script>"}}
	rec := postForm(Submit(fake, newRenderer(t, "dev")), url.Values{"name": {"Jane"}, "age": {"20"}})

	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSubmitJSONStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		result  submission.Result
		status  int
		outcome string
	}{
		{"success", submission.Result{Outcome: submission.Success, StatusCode: 200}, http.StatusOK, "success"},
		{"validation", submission.Result{Outcome: submission.ValidationError,
			Fields: validate.FieldErrors{"name": "name cannot be blank"}}, http.StatusBadRequest, "validation_error"},
		{"server", submission.Result{Outcome: submission.ServerError, StatusCode: 400, Message: "Invalid age"},
			http.StatusBadGateway, "server_error"},
		{"transport", submission.Result{Outcome: submission.TransportError, Message: "dial tcp: connection refused"},
			http.StatusGatewayTimeout, "transport_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSubmitter{result: tt.result}
			rec := postJSON(SubmitJSON(fake), `{"name":"Jane","age":30}`)

			assert.Equal(t, tt.status, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, tt.outcome, out["outcome"])
			require.Len(t, fake.calls, 1)
			assert.Equal(t, call{"Jane", 30}, fake.calls[0])
		})
	}
}

func TestSubmitJSONServerErrorEnvelope(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.ServerError, StatusCode: 400, Message: "Invalid age"}}
	out := decode(t, postJSON(SubmitJSON(fake), `{"name":"Jane","age":30}`))

	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "Error: Invalid age", out["message"])
	assert.Equal(t, "Invalid age", out["error"])
	assert.EqualValues(t, 400, out["upstream_status"])
}

func TestSubmitJSONBlankNameUsesErrorEnvelope(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{
		Outcome: submission.ValidationError,
		Message: "name cannot be blank",
		Fields:  validate.FieldErrors{"name": "name cannot be blank"},
	}}
	rec := postJSON(SubmitJSON(fake), `{"name":"   ","age":20}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "name cannot be blank", out["error"])
	assert.Equal(t, map[string]any{"name": "name cannot be blank"}, out["fields"])
	assert.Equal(t, "Please enter a name.", out["message"])
}

func TestSubmitJSONAgeMatchesFormRules(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.Success}}
	SubmitJSON(fake)(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/submissions",
		strings.NewReader(`{"name":"Jane","age":0}`)))
	postForm(Submit(fake, newRenderer(t, "dev")), url.Values{"name": {"Jane"}, "age": {"0"}})

	require.Len(t, fake.calls, 2)
	assert.Equal(t, fake.calls[0].age, fake.calls[1].age)
}

func TestSubmissionSurvivesClientDisconnect(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.Success}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	form := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"name": {"Jane"}, "age": {"20"}}.Encode()))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	Submit(fake, newRenderer(t, "dev"))(httptest.NewRecorder(), form.WithContext(ctx))

	js := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(`{"name":"Jane","age":20}`))
	SubmitJSON(fake)(httptest.NewRecorder(), js.WithContext(ctx))

	require.Len(t, fake.ctxErrs, 2)
	for _, err := range fake.ctxErrs {
		assert.NoError(t, err)
	}
}

func TestSubmitJSONAgeDefaults(t *testing.T) {
	fake := &fakeSubmitter{result: submission.Result{Outcome: submission.Success}}
	h := SubmitJSON(fake)

	postJSON(h, `{"name":"Jane"}`)
	postJSON(h, `{"name":"Jane","age":0}`)
	postJSON(h, `{"name":"Jane","age":101}`)
	postJSON(h, `{"name":"Jane","age":-3}`)

	ages := make([]int, 0, len(fake.calls))
	for _, c := range fake.calls {
		ages = append(ages, c.age)
	}
	assert.Equal(t, []int{18, 1, 100, 1}, ages)
}

func TestSubmitJSONBadBody(t *testing.T) {
	fake := &fakeSubmitter{}

	rec := postJSON(SubmitJSON(fake), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body is empty", decode(t, rec)["error"])

	rec = postJSON(SubmitJSON(fake), `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])

	assert.Empty(t, fake.calls)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestParseAge(t *testing.T) {
	cases := map[string]int{
		"":     18,
		" 42 ": 42,
		"1":    1,
		"100":  100,
		"0":    1,
		"101":  100,
		"1e3":  18,
		"x":    18,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseAge(raw), "ParseAge(%q)", raw)
	}
}
