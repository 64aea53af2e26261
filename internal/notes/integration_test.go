package notes_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/graphql"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notes"
	"github.com/idilsaglam/notes/internal/testutil"
)

func TestControllerAgainstGraphQLBackend(t *testing.T) {
	be := testutil.NewBackend(t,
		model.Note{ID: "1", ClientID: "other", Name: "first", Description: "a"},
		model.Note{ID: "2", ClientID: "other", Name: "second", Description: "b"},
	)
	client, err := graphql.New(config.APIConfig{
		Endpoint: be.Endpoint(),
		AuthMode: config.AuthModeDisabled,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	ctx := context.Background()
	c := notes.New(client, notes.WithClientID("me"))
	require.NoError(t, c.Initialize(ctx))
	require.Len(t, c.Snapshot().Notes, 2)

	require.NoError(t, c.UpdateFormField(model.FieldName, "third"))
	require.NoError(t, c.UpdateFormField(model.FieldDescription, "c"))
	created, err := c.CreateNote(ctx)
	require.NoError(t, err)

	c.ToggleCompleted(ctx, c.Snapshot().Notes[1])
	c.Wait()
	c.DeleteNote(ctx, "2")
	c.Wait()

	local := c.Snapshot().Notes
	require.Len(t, local, 2)
	assert.Equal(t, created.ID, local[0].ID)
	assert.True(t, local[1].Completed)

	remote := be.Notes()
	require.Len(t, remote, 2)
	assert.Equal(t, "1", remote[0].ID)
	assert.True(t, remote[0].Completed)
	assert.Equal(t, created, remote[1])
}

func TestControllerRemoteFailureDiverges(t *testing.T) {
	be := testutil.NewBackend(t)
	be.Fail(testutil.OpCreate, "Unauthorized")
	client, err := graphql.New(config.APIConfig{
		Endpoint: be.Endpoint(),
		AuthMode: config.AuthModeDisabled,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	c := notes.New(client)
	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.UpdateFormField(model.FieldName, "A"))
	require.NoError(t, c.UpdateFormField(model.FieldDescription, "B"))
	_, err = c.CreateNote(context.Background())
	require.NoError(t, err)
	c.Wait()

	assert.Len(t, c.Snapshot().Notes, 1)
	assert.Empty(t, be.Notes())
	assert.False(t, c.Snapshot().Error)
}
