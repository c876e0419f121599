package feedback_test

import (
	"context"
	"testing"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog/catalogtest"
	"dinesight-backend/internal/feedback"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndList(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	svc := feedback.NewService(s, clk)
	ctx := context.Background()

	fb, err := svc.Add(ctx, "Bread", 5, " crusty ")
	require.NoError(t, err)
	assert.Equal(t, "crusty", fb.Comment)
	assert.True(t, fb.FeedbackDate.Equal(catalogtest.Epoch))

	_, err = svc.Add(ctx, "Tea", 3, "")
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bread, err := svc.List(ctx, "Bread")
	require.NoError(t, err)
	require.Len(t, bread, 1)
	assert.Equal(t, 5, bread[0].Rating)
}

func TestAdd_Validation(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	svc := feedback.NewService(s, clk)

	for _, rating := range []int{0, 6} {
		_, err := svc.Add(context.Background(), "Bread", rating, "")
		assert.True(t, apperr.IsValidation(err))
	}
	_, err := svc.Add(context.Background(), "", 4, "")
	assert.True(t, apperr.IsValidation(err))
}
