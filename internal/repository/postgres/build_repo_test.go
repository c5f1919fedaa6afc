package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/league-builds/internal/repository/postgres"
	"github.com/dom/league-builds/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildRepository_GetByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBuildRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	older := testutil.NewBuildBuilder().WithOwner(user).Build(t, testDB.DB)
	time.Sleep(10 * time.Millisecond)
	newer := testutil.NewBuildBuilder().WithOwner(user).Build(t, testDB.DB)
	time.Sleep(10 * time.Millisecond)
	lux := testutil.NewBuildBuilder().WithOwner(user).WithChampion("Lux").Build(t, testDB.DB)
	testutil.NewBuildBuilder().Build(t, testDB.DB)

	tests := []struct {
		name     string
		champion string
		want     []uuid.UUID
	}{
		{name: "every champion", champion: "", want: []uuid.UUID{lux.ID, newer.ID, older.ID}},
		{name: "one champion newest first", champion: "Garen", want: []uuid.UUID{newer.ID, older.ID}},
		{name: "no builds", champion: "Zed", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builds, err := repo.GetByUserID(ctx, user.ID, tt.champion)
			require.NoError(t, err)

			var got []uuid.UUID
			for _, b := range builds {
				assert.Equal(t, user.ID, b.UserID)
				got = append(got, b.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBuildRepository(testDB.DB)
	ctx := context.Background()

	b := testutil.NewBuildBuilder().WithRunes("8010").Build(t, testDB.DB)

	b.Items = `["1001"]`
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, `["1001"]`, got.Items)
	assert.Equal(t, "8010", got.Runes)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
