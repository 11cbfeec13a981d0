package loadrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type LoadRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *tcpostgres.PostgresContainer
	db         *gorm.DB
	repository *loadrepo.GormLoadRepository
}

func TestLoadRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LoadRepositoryIntegrationTestSuite))
}

func (s *LoadRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := postgres.Open(connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *LoadRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE loads").Error)
	s.repository = loadrepo.NewGormLoadRepository(s.db)
}

func (s *LoadRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *LoadRepositoryIntegrationTestSuite) TestSaveAndGet() {
	ctx := s.T().Context()
	load := ports.LoadDetails{
		LoadID:      "L1",
		BrokerID:    "B1",
		PartnerIDs:  []string{"P1", "P2"},
		Shipper:     "Acme",
		Consignee:   "Globex",
		Origin:      "Dallas, TX",
		Destination: "Denver, CO",
		BOLNumber:   "BOL-1",
	}
	s.Require().NoError(s.repository.Save(ctx, load))

	got, err := s.repository.GetLoad(ctx, "L1")
	s.Require().NoError(err)
	s.Equal(load, got)

	load.PartnerIDs = []string{"P3"}
	load.BrokerID = "B2"
	s.Require().NoError(s.repository.Save(ctx, load))

	got, err = s.repository.GetLoad(ctx, "L1")
	s.Require().NoError(err)
	s.Equal([]string{"P3"}, got.PartnerIDs)
	s.Equal("B2", got.BrokerID)
}

func (s *LoadRepositoryIntegrationTestSuite) TestGetLoad_NotFound() {
	_, err := s.repository.GetLoad(s.T().Context(), "missing")
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *LoadRepositoryIntegrationTestSuite) TestSave_RequiresLoadID() {
	err := s.repository.Save(s.T().Context(), ports.LoadDetails{})
	s.ErrorIs(err, errs.ErrValueIsRequired)
}
