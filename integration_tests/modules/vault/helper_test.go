package vaultintegrationtests

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultpublisher "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/publisher"
	vaultqueue "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/queue"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	"github.com/acain89/SkillGrid/integration_tests/testutils"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvOnce sync.Once
	testEnvErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if testEnv != nil {
		testEnv.Cleanup()
	}
	os.Exit(code)
}

type TestDeps struct {
	Ctx     context.Context
	BunDB   *bun.DB
	Service *vaultservice.VaultService
}

func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()

	testEnvOnce.Do(func() {
		log.Println("Initializing vault test environment...")
		testEnv, testEnvErr = testutils.NewTestEnvironment(t)
	})
	if testEnvErr != nil {
		t.Fatalf("Vault test environment initialization failed: %v", testEnvErr)
	}
	return testEnv
}

func SetupTestVaultService(t *testing.T) TestDeps {
	t.Helper()
	env := GetTestEnv(t)

	resetCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := env.Reset(resetCtx); err != nil {
		t.Fatalf("Failed to reset environment: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jobs, err := jobqueue.New(env.Ctx, env.PgConnStr, logger, observability.NewNoop())
	if err != nil {
		t.Fatalf("Failed to create job queue: %v", err)
	}
	t.Cleanup(func() { _ = jobs.Stop(context.Background()) })

	service := vaultservice.NewVaultService(
		vaultdb.NewRepository(env.DB),
		vaultqueue.NewPayoutQueue(jobs, logger),
		vaultpublisher.New(env.EventBus),
		logger,
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test_vault_service"),
		env.DB,
		vaultservice.Config{},
	)

	return TestDeps{Ctx: env.Ctx, BunDB: env.DB, Service: service}
}
