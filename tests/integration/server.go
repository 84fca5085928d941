package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/derbent/backend/internal/application/housekeeping"
	"github.com/derbent/backend/internal/application/identity"
	"github.com/derbent/backend/internal/application/seed"
	"github.com/derbent/backend/internal/bootstrap"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/event"
	"github.com/derbent/backend/internal/interfaces/http/handler"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/derbent/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	companyCode   = "DERBENT"
	adminPassword = "admin-pass-123"
)

// TestServer is the full HTTP API over a seeded database
type TestServer struct {
	DB        *TestDB
	Container *bootstrap.Container
	Engine    *gin.Engine
	Bus       *event.InMemoryEventBus
	Events    *testutil.RecordingHandler
	CompanyID uuid.UUID
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "derbent-test", Env: "test"},
		JWT: config.JWTConfig{
			Secret:                 "integration-secret-with-enough-length-000",
			RefreshSecret:          "integration-refresh-secret-enough-length",
			Issuer:                 "derbent-test",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			MaxRefreshCount:        10,
		},
	}
}

// NewTestServer wires every service over a fresh database and loads the
// sample company
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(log)
	recorder := testutil.NewRecordingHandler()
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	blacklist := auth.NewInMemoryTokenBlacklist()
	c, err := bootstrap.Build(ctx, testConfig(), tdb.Database, blacklist, bus, log)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	system := handler.NewSystemHandler("derbent-test", "test", tdb.Database, nil)
	c.Mount(engine, system, bootstrap.RouteOptions{Blacklist: blacklist, Logger: log})

	s := &TestServer{DB: tdb, Container: c, Engine: engine, Bus: bus, Events: recorder}
	s.CompanyID = s.Seed(t, companyCode)
	return s
}

// Seed loads the sample fixture under the given company code
func (s *TestServer) Seed(t *testing.T, code string) uuid.UUID {
	t.Helper()
	fixture, err := seed.LoadSample()
	require.NoError(t, err)
	fixture.Company.Code = code

	result, err := s.Container.Seeder(adminPassword, zap.NewNop()).Run(context.Background(), fixture)
	require.NoError(t, err)
	return result.CompanyID
}

// Client returns an unauthenticated client
func (s *TestServer) Client() testutil.Client {
	return testutil.Client{Engine: s.Engine}
}

// Login signs in and returns a client carrying the access token together
// with the token pair
func (s *TestServer) Login(t *testing.T, code, username, password string) (testutil.Client, identity.LoginResult) {
	t.Helper()
	res := s.Client().Do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"company_code": code,
		"username":     username,
		"password":     password,
	})
	testutil.RequireStatus(t, res, http.StatusOK)
	login := testutil.Decode[identity.LoginResult](t, res)
	require.NotEmpty(t, login.AccessToken)
	return s.Client().WithToken(login.AccessToken), login
}

// Executor builds a housekeeping executor over the test services
func (s *TestServer) Executor() *housekeeping.Executor {
	c := s.Container
	return housekeeping.NewExecutor(c.Activities, c.Invoices, c.Sprints, c.ProjectRepo, c.Summaries, s.Bus, zap.NewNop())
}
