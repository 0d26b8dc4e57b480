package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionService(t *testing.T) {
	ctx := context.Background()
	rm := newFakeRepoManager()
	db, _ := newSQLMockDB(t)
	s := NewQuestionService(db, rm)

	q, err := s.Add(ctx, " What is your greatest strength? ", "Behavioral")
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.ID)
	assert.Equal(t, "What is your greatest strength?", q.Text)

	_, err = s.Add(ctx, "Explain interfaces", "Go")
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Go", list[1].Category)

	require.NoError(t, s.Replace(ctx, 2, "Explain embedding", "Go"))
	list, _ = s.List(ctx)
	assert.Equal(t, "Explain embedding", list[1].Text)

	assert.ErrorIs(t, s.Replace(ctx, 42, "x", "y"), common.ErrorNotFound)

	_, err = s.Add(ctx, "", "Go")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Add(ctx, "q", "  ")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.ErrorIs(t, s.Replace(ctx, 1, "", ""), common.ErrorValidation)

	_, err = s.Add(ctx, strings.Repeat("q", maxQuestionLen+1), "Go")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Add(ctx, "q", strings.Repeat("c", maxCategoryLen+1))
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.ErrorIs(t, s.Replace(ctx, 1, strings.Repeat("q", maxQuestionLen+1), "Go"), common.ErrorValidation)
	_, err = s.Add(ctx, strings.Repeat("q", maxQuestionLen), strings.Repeat("c", maxCategoryLen))
	require.NoError(t, err, "values at the column limit are accepted")

	rm.q.err = errBoom{}
	_, err = s.List(ctx)
	assert.Error(t, err)
}
