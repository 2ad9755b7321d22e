package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/testutil"
)

func Test_FollowRepo(t *testing.T) {
	container := testutil.StartPostgresContainer(t)
	defer container.Terminate()

	withTx := func(t *testing.T, testFunc func(r *FollowRepo, alice models.User, bob models.User)) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			alice, err := users.CreateUser(t.Context(), "alice", "pwd")
			require.NoError(t, err)
			bob, err := users.CreateUser(t.Context(), "bob", "pwd")
			require.NoError(t, err)

			testFunc(&FollowRepo{DB: tx}, alice, bob)
		})
	}

	t.Run("follow ok", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, bob models.User) {
			err := r.Follow(t.Context(), alice.ID, bob.ID)

			require.NoError(t, err)

			followers, following, err := r.Counts(t.Context(), bob.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, followers)
			assert.Equal(t, 0, following)
		})
	})

	t.Run("follow twice fails", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, bob models.User) {
			require.NoError(t, r.Follow(t.Context(), alice.ID, bob.ID))

			err := r.Follow(t.Context(), alice.ID, bob.ID)
			assert.ErrorIs(t, err, apperrors.ErrAlreadyFollowing)
		})
	})

	t.Run("self follow fails", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, _ models.User) {
			err := r.Follow(t.Context(), alice.ID, alice.ID)

			assert.ErrorIs(t, err, apperrors.ErrSelfFollow)
		})
	})

	t.Run("follow unknown user fails", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, _ models.User) {
			err := r.Follow(t.Context(), alice.ID, uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("unfollow ok", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, bob models.User) {
			require.NoError(t, r.Follow(t.Context(), alice.ID, bob.ID))

			err := r.Unfollow(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			followers, _, err := r.Counts(t.Context(), bob.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, followers)
		})
	})

	t.Run("unfollow without edge fails", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, bob models.User) {
			err := r.Unfollow(t.Context(), alice.ID, bob.ID)

			assert.ErrorIs(t, err, apperrors.ErrFollowNotFound)
		})
	})

	t.Run("counts both directions", func(t *testing.T) {
		withTx(t, func(r *FollowRepo, alice, bob models.User) {
			carol, err := (&UserRepo{DB: r.DB}).CreateUser(t.Context(), "carol", "pwd")
			require.NoError(t, err)

			require.NoError(t, r.Follow(t.Context(), alice.ID, bob.ID))
			require.NoError(t, r.Follow(t.Context(), carol.ID, alice.ID))

			followers, following, err := r.Counts(t.Context(), alice.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, followers, "carol follows alice")
			assert.Equal(t, 1, following, "alice follows bob")
		})
	})
}
