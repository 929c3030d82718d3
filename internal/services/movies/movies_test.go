package movies

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"movieshelf/proj/internal/domain/filters"
	"movieshelf/proj/internal/domain/models"
	"movieshelf/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) Get(ctx context.Context, id int, ownerID int64) (*models.Movie, error) {
	args := m.Called(ctx, id, ownerID)
	if movie := args.Get(0); movie != nil {
		return movie.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *storageMock) Insert(ctx context.Context, title string, publishYear int32, imageURL string, ownerID int64) (*models.Movie, error) {
	args := m.Called(ctx, title, publishYear, imageURL, ownerID)
	if movie := args.Get(0); movie != nil {
		return movie.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *storageMock) List(ctx context.Context, ownerID int64, search string, yearSearch int32, f filters.MovieFilters) ([]models.Movie, int, error) {
	args := m.Called(ctx, ownerID, search, yearSearch, f)
	return args.Get(0).([]models.Movie), args.Int(1), args.Error(2)
}

func (m *storageMock) ExistsDuplicate(ctx context.Context, ownerID int64, title string, publishYear int32, excludeID int) (bool, error) {
	args := m.Called(ctx, ownerID, title, publishYear, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *storageMock) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	args := m.Called(ctx, movie)
	if updated := args.Get(0); updated != nil {
		return updated.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *storageMock) Delete(ctx context.Context, id int, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type cleanerMock struct {
	removed []string
}

func (c *cleanerMock) Remove(_ context.Context, ref string) {
	c.removed = append(c.removed, ref)
}

// syncExecutor runs scheduled tasks inline so tests can observe them.
type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

func newTestService(t *testing.T) (*MovieService, *storageMock, *cleanerMock) {
	t.Helper()
	st := &storageMock{}
	cl := &cleanerMock{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, st, cl, syncExecutor{}), st, cl
}

const ownerID int64 = 7

func TestCreate(t *testing.T) {
	ctx := context.Background()
	input := CreateMovieInput{Title: "Up", PublishYear: 2009, ImageURL: "http://h/images/up.jpg"}

	t.Run("success", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		st.On("ExistsDuplicate", ctx, ownerID, "Up", int32(2009), storage.EmptyIntValue).Return(false, nil)
		st.On("Insert", ctx, "Up", int32(2009), "http://h/images/up.jpg", ownerID).
			Return(&models.Movie{ID: 1, Title: "Up", PublishYear: 2009, CreatedBy: ownerID}, nil)

		movie, err := svc.Create(ctx, input, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 1, movie.ID)
		st.AssertExpectations(t)
	})

	t.Run("duplicate for same owner", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		st.On("ExistsDuplicate", ctx, ownerID, "Up", int32(2009), storage.EmptyIntValue).Return(true, nil)

		_, err := svc.Create(ctx, input, ownerID)
		assert.ErrorIs(t, err, ErrMovieAlreadyExists)
		st.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same title and year allowed for another owner", func(t *testing.T) {
		const otherOwner int64 = 8
		svc, st, _ := newTestService(t)
		st.On("ExistsDuplicate", ctx, otherOwner, "Up", int32(2009), storage.EmptyIntValue).Return(false, nil)
		st.On("Insert", ctx, "Up", int32(2009), "http://h/images/up.jpg", otherOwner).
			Return(&models.Movie{ID: 2, Title: "Up", PublishYear: 2009, CreatedBy: otherOwner}, nil)

		movie, err := svc.Create(ctx, input, otherOwner)
		require.NoError(t, err)
		assert.Equal(t, otherOwner, movie.CreatedBy)
	})

	t.Run("racing insert surfaces conflict", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		st.On("ExistsDuplicate", ctx, ownerID, "Up", int32(2009), storage.EmptyIntValue).Return(false, nil)
		st.On("Insert", ctx, "Up", int32(2009), "http://h/images/up.jpg", ownerID).
			Return(nil, storage.ErrConflict)

		_, err := svc.Create(ctx, input, ownerID)
		assert.ErrorIs(t, err, ErrMovieAlreadyExists)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("missing and foreign are both not found", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		st.On("Get", ctx, 42, ownerID).Return(nil, storage.ErrNotFound)

		_, err := svc.Get(ctx, 42, ownerID)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric search is matched against publish year", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		want := filters.MovieFilters{Page: 1, Limit: 10, Search: "2009"}
		st.On("List", ctx, ownerID, "2009", int32(2009), want).
			Return([]models.Movie{{ID: 1}}, 1, nil)

		items, meta, err := svc.List(ctx, filters.MovieFilters{Search: "2009"}, ownerID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, meta.Total)
		assert.Equal(t, 1, meta.TotalPages)
	})

	t.Run("non numeric search gets sentinel year", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		want := filters.MovieFilters{Page: 1, Limit: 10, Search: "up"}
		st.On("List", ctx, ownerID, "up", int32(storage.EmptyIntValue), want).
			Return([]models.Movie{}, 0, nil)

		_, meta, err := svc.List(ctx, filters.MovieFilters{Search: "up"}, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 0, meta.TotalPages)
	})

	t.Run("limit below floor is clamped before querying", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		want := filters.MovieFilters{Page: 3, Limit: 10}
		st.On("List", ctx, ownerID, "", int32(storage.EmptyIntValue), want).
			Return([]models.Movie{}, 25, nil)

		_, meta, err := svc.List(ctx, filters.MovieFilters{Page: 3, Limit: 2}, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 10, meta.Limit)
		assert.Equal(t, 3, meta.TotalPages)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	stored := func() *models.Movie {
		return &models.Movie{
			ID: 1, Title: "Up", PublishYear: 2009,
			ImageURL: "/images/old.jpg", CreatedBy: ownerID,
		}
	}

	t.Run("changed image schedules exactly one removal of the old one", func(t *testing.T) {
		svc, st, cl := newTestService(t)
		newURL := "https://b.s3.us-east-1.amazonaws.com/images/new.jpg"
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		st.On("Update", ctx, mock.MatchedBy(func(m *models.Movie) bool {
			return m.ImageURL == newURL
		})).Return(stored(), nil)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{ImageURL: &newURL}, ownerID)
		require.NoError(t, err)
		assert.Equal(t, []string{"/images/old.jpg"}, cl.removed)
	})

	t.Run("same image schedules no removal", func(t *testing.T) {
		svc, st, cl := newTestService(t)
		sameURL := "/images/old.jpg"
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		st.On("Update", ctx, mock.Anything).Return(stored(), nil)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{ImageURL: &sameURL}, ownerID)
		require.NoError(t, err)
		assert.Empty(t, cl.removed)
	})

	t.Run("duplicate check uses patch values with stored fallback", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		newTitle := "Up 2"
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		// Title comes from the patch, year falls back to the stored value,
		// and the record's own id is excluded.
		st.On("ExistsDuplicate", ctx, ownerID, "Up 2", int32(2009), 1).Return(true, nil)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{Title: &newTitle}, ownerID)
		assert.ErrorIs(t, err, ErrMovieAlreadyExists)
		st.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("image only patch skips duplicate check", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		newURL := "http://h/images/new.jpg"
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		st.On("Update", ctx, mock.Anything).Return(stored(), nil)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{ImageURL: &newURL}, ownerID)
		require.NoError(t, err)
		st.AssertNotCalled(t, "ExistsDuplicate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("old image removal attempted even when write later conflicts", func(t *testing.T) {
		svc, st, cl := newTestService(t)
		newURL := "http://h/images/new.jpg"
		newYear := int32(2010)
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		st.On("ExistsDuplicate", ctx, ownerID, "Up", int32(2010), 1).Return(true, nil)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{ImageURL: &newURL, PublishYear: &newYear}, ownerID)
		assert.ErrorIs(t, err, ErrMovieAlreadyExists)
		assert.Equal(t, []string{"/images/old.jpg"}, cl.removed)
	})

	t.Run("foreign movie is not found", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		st.On("Get", ctx, 1, int64(99)).Return(nil, storage.ErrNotFound)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{}, 99)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})

	t.Run("row vanished between check and write", func(t *testing.T) {
		svc, st, _ := newTestService(t)
		newTitle := "Up 2"
		st.On("Get", ctx, 1, ownerID).Return(stored(), nil)
		st.On("ExistsDuplicate", ctx, ownerID, "Up 2", int32(2009), 1).Return(false, nil)
		st.On("Update", ctx, mock.Anything).Return(nil, storage.ErrNotFound)

		_, err := svc.Update(ctx, 1, UpdateMovieInput{Title: &newTitle}, ownerID)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes record then schedules image cleanup", func(t *testing.T) {
		svc, st, cl := newTestService(t)
		st.On("Get", ctx, 1, ownerID).
			Return(&models.Movie{ID: 1, ImageURL: "images/a.jpg", CreatedBy: ownerID}, nil)
		st.On("Delete", ctx, 1, ownerID).Return(nil)

		require.NoError(t, svc.Remove(ctx, 1, ownerID))
		assert.Equal(t, []string{"images/a.jpg"}, cl.removed)
	})

	t.Run("foreign movie is not found", func(t *testing.T) {
		svc, st, cl := newTestService(t)
		st.On("Get", ctx, 1, int64(99)).Return(nil, storage.ErrNotFound)

		err := svc.Remove(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrMovieNotFound)
		assert.Empty(t, cl.removed)
	})
}
