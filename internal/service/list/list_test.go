package list

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/repository/postgres"
	"github.com/ccoutinho/letterfy/internal/testutil"
)

type fakeCatalog struct {
	calls int
}

func (c *fakeCatalog) GetItem(ctx context.Context, kind models.ItemKind, id string) (models.CatalogItem, error) {
	c.calls++
	return models.CatalogItem{
		ID:       id,
		Kind:     kind,
		Name:     "Pyramid Song",
		Artist:   "Radiohead",
		CoverURL: "https://img.example/pyramid.jpg",
	}, nil
}

func Test_ListService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(t *testing.T, catalog *fakeCatalog, fn func(s *ListService, author models.User, other models.User)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &postgres.UserRepo{DB: tx}
			author, err := users.CreateUser(t.Context(), "curator", "pwd")
			require.NoError(t, err)
			other, err := users.CreateUser(t.Context(), "visitor", "pwd")
			require.NoError(t, err)

			fn(NewService(catalog, &postgres.ListRepo{DB: tx}), author, other)
		})
	}

	t.Run("create list ok", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, _ models.User) {
			list, err := s.CreateList(t.Context(), author, CreateParams{
				Name:     "  desert island  ",
				IsPublic: true,
			})

			require.NoError(t, err)
			assert.Equal(t, "desert island", list.Name, "name must be trimmed")
			assert.Equal(t, author.ID, list.AuthorID)
		})
	})

	t.Run("create list requires name", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, _ models.User) {
			_, err := s.CreateList(t.Context(), author, CreateParams{Name: "   "})

			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	})

	t.Run("private list hidden from others", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, other models.User) {
			list, err := s.CreateList(t.Context(), author, CreateParams{Name: "secret", IsPublic: false})
			require.NoError(t, err)

			_, err = s.GetList(t.Context(), author.ID, list.ID)
			assert.NoError(t, err, "author sees own private list")

			_, err = s.GetList(t.Context(), other.ID, list.ID)
			assert.ErrorIs(t, err, apperrors.ErrListForbidden)

			_, err = s.GetList(t.Context(), uuid.Nil, list.ID)
			assert.ErrorIs(t, err, apperrors.ErrListForbidden, "anonymous viewer must not see private list")
		})
	})

	t.Run("public list visible to all", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, other models.User) {
			list, err := s.CreateList(t.Context(), author, CreateParams{Name: "open", IsPublic: true})
			require.NoError(t, err)

			_, err = s.GetList(t.Context(), other.ID, list.ID)
			assert.NoError(t, err)

			_, err = s.GetList(t.Context(), uuid.Nil, list.ID)
			assert.NoError(t, err)
		})
	})

	t.Run("add item snapshots from catalog", func(t *testing.T) {
		catalog := &fakeCatalog{}

		withTx(t, catalog, func(s *ListService, author, _ models.User) {
			list, err := s.CreateList(t.Context(), author, CreateParams{Name: "picks", IsPublic: true})
			require.NoError(t, err)

			updated, err := s.AddItem(t.Context(), author.ID, list.ID, models.ItemTrack, "track-1")

			require.NoError(t, err)
			assert.Equal(t, 1, catalog.calls)
			require.Len(t, updated.Items, 1)
			assert.Equal(t, "Pyramid Song", updated.Items[0].Name)
		})
	})

	t.Run("only author adds items", func(t *testing.T) {
		catalog := &fakeCatalog{}

		withTx(t, catalog, func(s *ListService, author, other models.User) {
			list, err := s.CreateList(t.Context(), author, CreateParams{Name: "picks", IsPublic: true})
			require.NoError(t, err)

			_, err = s.AddItem(t.Context(), other.ID, list.ID, models.ItemTrack, "track-1")

			assert.ErrorIs(t, err, apperrors.ErrListForbidden)
			assert.Equal(t, 0, catalog.calls, "denied add must not reach the catalog")
		})
	})

	t.Run("add item to missing list", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, _ models.User) {
			_, err := s.AddItem(t.Context(), author.ID, uuid.New(), models.ItemTrack, "track-1")

			assert.ErrorIs(t, err, apperrors.ErrListNotFound)
		})
	})

	t.Run("list by author hides private from others", func(t *testing.T) {
		withTx(t, &fakeCatalog{}, func(s *ListService, author, other models.User) {
			_, err := s.CreateList(t.Context(), author, CreateParams{Name: "open", IsPublic: true})
			require.NoError(t, err)
			_, err = s.CreateList(t.Context(), author, CreateParams{Name: "hidden", IsPublic: false})
			require.NoError(t, err)

			own, err := s.ListByAuthor(t.Context(), author.ID, author.ID)
			require.NoError(t, err)
			assert.Len(t, own, 2)

			visible, err := s.ListByAuthor(t.Context(), other.ID, author.ID)
			require.NoError(t, err)
			require.Len(t, visible, 1)
			assert.Equal(t, "open", visible[0].Name)
		})
	})
}
