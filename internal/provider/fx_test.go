package provider

import (
	"context"
	"testing"

	"github.com/smallbiznis/fiscalgate/internal/config"
	"github.com/smallbiznis/fiscalgate/internal/provider/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ name string }

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Submit(ctx context.Context, payload domain.Payload) (domain.Result, error) {
	return domain.Result{Success: true}, nil
}

func TestNewRegistryWithoutAdapters(t *testing.T) {
	reg, err := NewRegistry(Params{
		Cfg: config.Config{
			Processing: config.ProcessingConfig{Providers: []string{"anaf", "smartbill"}},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, reg.Names())
}

func TestNewRegistrySelectsConfiguredAdapters(t *testing.T) {
	reg, err := NewRegistry(Params{
		Cfg: config.Config{
			Processing: config.ProcessingConfig{Providers: []string{"anaf"}},
		},
		Adapters: []domain.Provider{
			&stubAdapter{name: "anaf"},
			&stubAdapter{name: "smartbill"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"anaf"}, reg.Names())

	_, err = reg.Get("smartbill")
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
