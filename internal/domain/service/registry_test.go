package service

import (
	"context"
	"testing"

	"github.com/agentdesk/host/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	id       string
	category types.Category
	lastTool string
}

func (f *fakeProvider) Definition() types.Service {
	return types.Service{
		ID:       f.id,
		Name:     f.id,
		Category: f.category,
		Tools: []types.Tool{
			{ID: f.id + ".noop"},
		},
	}
}

func (f *fakeProvider) Execute(_ context.Context, toolID string, _ map[string]interface{}, _ *types.Context) (*types.Result, error) {
	f.lastTool = toolID
	return &types.Result{Success: true}, nil
}

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	p := &fakeProvider{id: "terminal", category: types.CategoryTerminal}
	require.NoError(t, r.Register(p))

	result, err := r.Execute(context.Background(), "terminal.noop", nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "terminal.noop", p.lastTool)
}

func TestRegisterEmptyID(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&fakeProvider{id: ""})
	assert.Error(t, err)
}

func TestExecuteUnknownService(t *testing.T) {
	r := NewRegistry()

	result, err := r.Execute(context.Background(), "nope.op", nil, nil)
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
}

func TestExecuteMalformedToolID(t *testing.T) {
	r := NewRegistry()

	result, err := r.Execute(context.Background(), "noseparator", nil, nil)
	assert.Error(t, err)
	assert.False(t, result.Success)
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeProvider{id: "links", category: types.CategoryLinks}))

	_, ok := r.Get("links")
	require.True(t, ok)

	r.Unregister("links")
	_, ok = r.Get("links")
	assert.False(t, ok)

	result, err := r.Execute(context.Background(), "links.noop", nil, nil)
	assert.Error(t, err)
	assert.False(t, result.Success)
}

func TestListSortedAndFiltered(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeProvider{id: "links", category: types.CategoryLinks}))
	require.NoError(t, r.Register(&fakeProvider{id: "credentials", category: types.CategoryCredentials}))
	require.NoError(t, r.Register(&fakeProvider{id: "terminal", category: types.CategoryTerminal}))

	all := r.List(nil)
	require.Len(t, all, 3)
	assert.Equal(t, "credentials", all[0].ID)
	assert.Equal(t, "links", all[1].ID)
	assert.Equal(t, "terminal", all[2].ID)

	cat := types.CategoryTerminal
	filtered := r.List(&cat)
	require.Len(t, filtered, 1)
	assert.Equal(t, "terminal", filtered[0].ID)

	stats := r.Stats()
	assert.Equal(t, 3, stats["total_services"])
}
