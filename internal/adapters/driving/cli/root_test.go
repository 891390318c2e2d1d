package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/logger"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "no-config", "tenant"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "default", rootCmd.PersistentFlags().Lookup("tenant").DefValue)
}

func TestRootCmd_BootstrapReceivesOptions(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()

	wired = false
	var got Options
	rag := &mockRAGService{}
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{RAG: rag, Settings: domain.DefaultSettings()}, nil
	})

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--verbose", "--no-config", "version"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, Options{Verbose: true, NoConfig: true}, got)
	assert.True(t, logger.IsVerbose())
	assert.Same(t, rag, ragService)
	assert.True(t, wired)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()

	wired = false
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("config broken")
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})

	err := rootCmd.Execute()
	assert.EqualError(t, err, "config broken")
}

func TestCurrentTenant(t *testing.T) {
	old := tenant
	defer func() { tenant = old }()

	tenant = "acme"
	got, err := currentTenant()
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("acme"), got)

	tenant = ""
	_, err = currentTenant()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecute(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, Execute(context.Background()))
	assert.Contains(t, buf.String(), "bizrag version")
}
