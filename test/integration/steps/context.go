// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/queue"
	"github.com/finance-tracker/ledger/test/integration/mock"
)

const (
	testJWTSecret = "test-jwt-secret-key-for-testing-purposes"
	testJWTIssuer = "ledger-features"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string
	accessToken    string

	// Engine
	inj        *dependency.Injector
	worker     *queue.Worker
	clock      *mock.Time
	queueClock *mock.Time

	// Named references resolved in request paths and bodies as {name}.
	refs  map[string]uuid.UUID
	users map[string]uuid.UUID
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

var emailAPI *mock.ApiMock

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		emailAPI = mock.NewApiServer()
		emailAPI.Start()
	})

	ctx.AfterSuite(func() {
		emailAPI.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		database := mock.NewDb()
		if err := database.ClearDB(); err != nil {
			return ctx, err
		}
		redisClient := mock.NewRedis()
		if err := mock.ClearRedis(redisClient); err != nil {
			return ctx, err
		}
		emailAPI.Reset()

		cfg := &config.Config{
			Server: config.ServerConfig{Environment: "test"},
			Redis:  config.RedisConfig{KeyPrefix: "ledger:"},
			JWT:    config.JWTConfig{Secret: testJWTSecret, Issuer: testJWTIssuer},
			Email: config.EmailConfig{
				ResendAPIKey: "re_test",
				FromName:     "Ledger",
				FromEmail:    "ledger@example.com",
				BaseURL:      emailAPI.GetUrl(),
			},
			Queue: config.QueueConfig{MaxRetries: 2, RetryBackoff: 30 * time.Second},
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		inj, err := dependency.NewInjector(cfg, database.DbConn, redisClient, logger)
		if err != nil {
			return ctx, err
		}

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			inj:            inj,
			clock:          mock.NewTime(),
			queueClock:     mock.NewTime(),
			refs:           make(map[string]uuid.UUID),
			users:          make(map[string]uuid.UUID),
		}
		tc.worker = queue.NewWorker(inj.Tasks, inj.Executor, inj.WorkerConfig(), logger).WithClock(tc.queueClock.Now)
		tc.server = httptest.NewServer(inj.Router.Setup("test"))

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerLedgerSteps(ctx)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I remember the response as "([^"]*)"$`, iRememberTheResponseAs)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
}

var refPattern = regexp.MustCompile(`\{([^{}"]+)\}`)

// expand replaces {name} with the remembered ID of that name.
func (tc *TestContext) expand(s string) (string, error) {
	var missing string
	out := refPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		id, ok := tc.refs[name]
		if !ok {
			missing = name
			return m
		}
		return id.String()
	})
	if missing != "" {
		return "", fmt.Errorf("unknown reference {%s}", missing)
	}
	return out, nil
}

func (tc *TestContext) send(method, endpoint string, body io.Reader) error {
	endpoint, err := tc.expand(endpoint)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, tc.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	return tc.send(method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	content, err := tc.expand(body.Content)
	if err != nil {
		return err
	}
	return tc.send(method, endpoint, bytes.NewBufferString(content))
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return nil
}

func iRememberTheResponseAs(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	value, err := tc.field("id")
	if err != nil {
		return err
	}
	id, err := uuid.Parse(fmt.Sprintf("%v", value))
	if err != nil {
		return fmt.Errorf("response id is not a UUID: %w", err)
	}
	tc.refs[name] = id
	return nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

// field looks up a dotted path such as "progress.remaining_periods".
func (tc *TestContext) field(path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		obj, ok := data.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response: %s", path, string(tc.responseBody))
		}
		if data, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field '%s' not found in response: %s", path, string(tc.responseBody))
		}
	}
	return data, nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	value, err := tc.field(field)
	if err != nil {
		return err
	}
	expected, err = tc.expand(expected)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	_, err := tc.field(field)
	return err
}
