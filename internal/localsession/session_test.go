package localsession

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matinnuhamunada/bgcstage/internal/profile"
)

func TestFactory_NewSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &Factory{Workers: 2}

	sess, err := f.NewSession(ctx, &profile.Profile{Name: "test"})
	require.NoError(t, err)

	pipe, err := sess.Pipeline()
	require.NoError(t, err)
	assert.NotNil(t, pipe)

	assert.NoError(t, sess.Close(ctx))
}
