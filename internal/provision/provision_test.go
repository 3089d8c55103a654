package provision

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/NomadCrew/feedback-intake/internal/store/dynamo"
	"github.com/NomadCrew/feedback-intake/internal/store/memory"
	"github.com/NomadCrew/feedback-intake/internal/store/objectstore"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

func localConfig(provisioning config.Provisioning) *config.Config {
	return &config.Config{
		Intake: config.IntakeConfig{
			Provisioning:       provisioning,
			NotificationPolicy: config.PolicyBestEffort,
		},
		Store:    config.StoreConfig{Driver: config.StoreMemory, TableName: "feedback"},
		Notifier: config.NotifierConfig{Driver: config.NotifierLog, Topic: "feedback"},
	}
}

func TestPolicy(t *testing.T) {
	assert.Equal(t, intake.PolicyStrict, Policy(config.PolicyStrict))
	assert.Equal(t, intake.PolicyBestEffort, Policy(config.PolicyBestEffort))
	assert.Equal(t, intake.PolicyBestEffort, Policy(""))
}

func TestBuild_Shared(t *testing.T) {
	ctx := context.Background()
	p, err := Build(ctx, localConfig(config.ProvisionShared))
	require.NoError(t, err)
	defer p.Close(ctx)

	first, err := p.Stores(ctx)
	require.NoError(t, err)
	second, err := p.Stores(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Contains(t, p.Checks, "store")
	n, err := p.Notifiers(ctx)
	require.NoError(t, err)
	assert.NoError(t, n.Publish(ctx, "feedback", "s", "m"))
}

func TestBuild_PerInvocation(t *testing.T) {
	ctx := context.Background()
	p, err := Build(ctx, localConfig(config.ProvisionPerInvocation))
	require.NoError(t, err)
	assert.Empty(t, p.Checks)

	st, err := p.Stores(ctx)
	require.NoError(t, err)
	_, isClosing := st.(closingStore)
	assert.True(t, isClosing)

	record := types.FeedbackRecord{ID: "per-invocation-1", CreatedAt: "t"}
	require.NoError(t, st.Put(ctx, record))
	_, err = sharedMemory().Get(ctx, record.ID)
	assert.NoError(t, err)
}

func TestBuild_UnknownDrivers(t *testing.T) {
	ctx := context.Background()

	cfg := localConfig(config.ProvisionShared)
	cfg.Store.Driver = "cassandra"
	_, err := Build(ctx, cfg)
	assert.ErrorContains(t, err, `unknown store driver "cassandra"`)

	cfg = localConfig(config.ProvisionShared)
	cfg.Notifier.Driver = "pigeon"
	_, err = Build(ctx, cfg)
	assert.ErrorContains(t, err, `unknown notifier driver "pigeon"`)

	// Under per-invocation provisioning the failure surfaces from the provider.
	cfg = localConfig(config.ProvisionPerInvocation)
	cfg.Store.Driver = "cassandra"
	p, err := Build(ctx, cfg)
	require.NoError(t, err)
	_, err = p.Stores(ctx)
	assert.Error(t, err)
}

func TestNewStore_AWSDrivers(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig(config.ProvisionShared)
	cfg.AWS = config.AWSConfig{Region: "us-east-1", AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}

	cfg.Store.Driver = config.StoreDynamoDB
	st, _, err := NewStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &dynamo.Store{}, st)

	cfg.Store.Driver = config.StoreS3
	cfg.Store.Endpoint = "http://localhost:9000"
	st, _, err = NewStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &objectstore.Store{}, st)

	cfg.Store.Driver = config.StoreMemory
	st, _, err = NewStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st)
}

func TestAWSConfig_StaticCredentials(t *testing.T) {
	cfg := localConfig(config.ProvisionShared)
	cfg.AWS = config.AWSConfig{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}

	awsCfg, err := AWSConfig(context.Background(), cfg, "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}

func TestClosingWrappersCloseAfterUse(t *testing.T) {
	ctx := context.Background()
	var closed int
	closeFn := func(context.Context) error {
		closed++
		return nil
	}

	st := closingStore{store: memory.New(), close: closeFn}
	require.NoError(t, st.Put(ctx, types.FeedbackRecord{ID: "a"}))

	failing := intake.NotifierFunc(func(context.Context, string, string, string) error { return errors.New("down") })
	n := closingNotifier{notifier: failing, close: closeFn}
	assert.Error(t, n.Publish(ctx, "t", "s", "m"))

	assert.Equal(t, 2, closed)
}
