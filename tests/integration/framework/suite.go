package framework

import (
	"context"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver for migrations
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	signupd "gitlab.com/signupd/signup-backend"
	"gitlab.com/signupd/signup-backend/pkg/env"
	postgrespkg "gitlab.com/signupd/signup-backend/pkg/postgres"
	"gitlab.com/signupd/signup-backend/pkg/watermillx"
	"gitlab.com/signupd/signup-backend/tests/integration/builders"
	"gitlab.com/signupd/signup-backend/tests/integration/framework/db"
	"gitlab.com/signupd/signup-backend/tests/integration/framework/event"
	frameworkhttp "gitlab.com/signupd/signup-backend/tests/integration/framework/http"
	"gitlab.com/signupd/signup-backend/tests/mocks"
)

// IntegrationTestSuite runs the whole application against a disposable
// Postgres container. Embed it and set AppArgs before the suite runs to
// change the wiring.
type IntegrationTestSuite struct {
	suite.Suite

	AppArgs AppArgs

	pgContainer *tcpostgres.PostgresContainer
	pgPool      *pgxpool.Pool
	app         *App

	HTTP    *frameworkhttp.Helper
	DB      *db.Helper
	Event   *event.Helper
	Builder *builders.Factory

	MockMailSender *mocks.MockMailSender
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	env.SetMode(env.Test)

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		tcpostgres.WithDatabase("signupd_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pgPool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	migrateDSN := strings.Replace(connStr, "postgres://", "pgx://", 1)
	s.Require().NoError(postgrespkg.Migrate(migrateDSN, &signupd.Migrations))

	wmlogger := watermill.NewStdLogger(false, false)
	s.Require().NoError(watermillx.InitializeEventSchema(ctx, s.pgPool, wmlogger))

	s.app, err = NewApp(ctx, s.pgPool, s.AppArgs)
	s.Require().NoError(err)

	s.HTTP = frameworkhttp.NewHelper(s.app.HTTPHandler)
	s.DB = db.NewHelper(db.Args{Pool: s.pgPool, Account: s.app.AccountRepo})
	s.Event = event.NewHelper(s.pgPool)
	s.Builder = builders.NewFactory()
	s.MockMailSender = s.app.MockMailSender
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.app != nil {
		_ = s.app.Close()
	}

	if s.pgPool != nil {
		s.pgPool.Close()
	}

	if s.pgContainer != nil {
		s.Require().NoError(s.pgContainer.Terminate(context.Background()))
	}
}

func (s *IntegrationTestSuite) AfterTest(suiteName, testName string) {
	s.DB.TruncateAll(s.T())
	s.Event.ClearAllEvents(s.T())
	if s.MockMailSender != nil {
		s.MockMailSender.Reset()
	}
}

func (s *IntegrationTestSuite) App() *App {
	return s.app
}

func (s *IntegrationTestSuite) Pool() *pgxpool.Pool {
	return s.pgPool
}
