package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
	"github.com/kevinaaaquil/dejapp/store/memstore"
)

type MockLinkInspector struct {
	mock.Mock
}

func (m *MockLinkInspector) Inspect(ctx context.Context, link string) error {
	return m.Called(ctx, link).Error(0)
}

type docFixture struct {
	docs   *Documents
	store  *memstore.Store
	admin  *models.Profile
	member *models.Profile
}

func newDocFixture(t *testing.T, mutation policy.MutationPolicy) docFixture {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()
	admin := &models.Profile{Email: "x@admin", FullName: "Diretoria", Role: models.RoleAdmin}
	member := &models.Profile{Email: "ana@example.com", FullName: "Ana", Role: models.RoleMember}
	var err error
	admin.ID, err = st.CreateProfile(ctx, admin)
	require.NoError(t, err)
	member.ID, err = st.CreateProfile(ctx, member)
	require.NoError(t, err)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return docFixture{
		docs: &Documents{
			Store:   st,
			Gate:    policy.NewGate(mutation),
			Metrics: metrics.New(prometheus.NewRegistry()),
			Now: func() time.Time {
				clock = clock.Add(time.Minute)
				return clock
			},
		},
		store:  st,
		admin:  admin,
		member: member,
	}
}

func validDraft() models.Draft {
	return models.Draft{
		Title:       "Manual do Membro",
		Description: "Regras e processos internos",
		Category:    models.CategoryAdministrative,
		DriveLink:   "https://drive.google.com/file/d/abc123/view",
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()

	created, err := f.docs.Create(ctx, f.member, validDraft())
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, created.AuthorID)

	list, err := f.docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Manual do Membro", list[0].Title)
	assert.Equal(t, models.CategoryAdministrative, list[0].Category)
	assert.Equal(t, "Ana", list[0].AuthorName)

	title := "Manual do Membro 2026"
	updated, err := f.docs.Update(ctx, f.admin, created.ID, models.DocumentPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Regras e processos internos", updated.Description)

	list, err = f.docs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, title, list[0].Title)
	assert.Equal(t, f.member.ID, list[0].AuthorID, "editing keeps the original author")
	assert.True(t, list[0].UpdatedAt.After(list[0].CreatedAt))

	require.NoError(t, f.docs.Delete(ctx, f.admin, created.ID, true))
	list, err = f.docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.docs.Metrics.DocumentMutations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.docs.Metrics.DocumentMutations.WithLabelValues("delete", "ok")))
}

func TestDocumentsListNewestFirst(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		d := validDraft()
		d.Title = title
		_, err := f.docs.Create(ctx, f.admin, d)
		require.NoError(t, err)
	}
	list, err := f.docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestDocumentsCreateValidation(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()

	d := validDraft()
	d.Title = "   "
	d.DriveLink = "https://dropbox.com/x"
	_, err := f.docs.Create(ctx, f.admin, d)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "required", ve.Fields["title"])
	assert.Equal(t, "invalid_drive_link", ve.Fields["drive_link"])

	d = validDraft()
	d.DriveLink = ""
	_, err = f.docs.Create(ctx, f.admin, d)
	assert.NoError(t, err, "an empty link is accepted as not provided yet")
}

func TestDocumentsPermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		f := newDocFixture(t, policy.MutateAdminOnly)
		doc, err := f.docs.Create(ctx, f.member, validDraft())
		require.NoError(t, err)

		title := "x"
		_, err = f.docs.Update(ctx, f.member, doc.ID, models.DocumentPatch{Title: &title})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.ErrorIs(t, f.docs.Delete(ctx, f.member, doc.ID, true), apperr.ErrForbidden)

		got, err := f.docs.Get(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Manual do Membro", got.Title)
	})

	t.Run("OwnerOrAdmin", func(t *testing.T) {
		f := newDocFixture(t, policy.MutateOwnerOrAdmin)
		doc, err := f.docs.Create(ctx, f.member, validDraft())
		require.NoError(t, err)
		title := "Meu manual"
		_, err = f.docs.Update(ctx, f.member, doc.ID, models.DocumentPatch{Title: &title})
		assert.NoError(t, err)
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newDocFixture(t, policy.MutateAuthenticated)
		_, err := f.docs.Create(ctx, nil, validDraft())
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestDocumentsDeleteNeedsConfirmation(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()
	doc, err := f.docs.Create(ctx, f.admin, validDraft())
	require.NoError(t, err)

	assert.ErrorIs(t, f.docs.Delete(ctx, f.admin, doc.ID, false), apperr.ErrConfirmationRequired)
	list, err := f.docs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDocumentsMissingRecord(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()
	title := "x"
	_, err := f.docs.Update(ctx, f.admin, primitive.NewObjectID(), models.DocumentPatch{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.docs.Delete(ctx, f.admin, primitive.NewObjectID(), true), apperr.ErrNotFound)
}

func TestDocumentsUpdateValidatesMergedDraft(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()
	doc, err := f.docs.Create(ctx, f.admin, validDraft())
	require.NoError(t, err)

	category := "Outros"
	_, err = f.docs.Update(ctx, f.admin, doc.ID, models.DocumentPatch{Category: &category})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	same, err := f.docs.Update(ctx, f.admin, doc.ID, models.DocumentPatch{})
	require.NoError(t, err)
	assert.Equal(t, doc.UpdatedAt, same.UpdatedAt, "an empty patch writes nothing")
}

func TestDocumentsStoreFailure(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	f.store.Err = errors.New("network unreachable")

	_, err := f.docs.List(context.Background())
	var de *apperr.DataAccessError
	assert.ErrorAs(t, err, &de)

	_, err = f.docs.Create(context.Background(), f.admin, validDraft())
	assert.Equal(t, apperr.KindDataAccess, apperr.KindOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.docs.Metrics.DocumentMutations.WithLabelValues("create", "error")))
}

func TestDocumentsLinkInspection(t *testing.T) {
	f := newDocFixture(t, policy.MutateAdminOnly)
	ctx := context.Background()
	inspector := new(MockLinkInspector)
	f.docs.Links = inspector

	draft := validDraft()
	inspector.On("Inspect", ctx, draft.DriveLink).
		Return(apperr.Validation(map[string]string{"drive_link": "not_accessible"})).Once()

	_, err := f.docs.Create(ctx, f.admin, draft)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	inspector.AssertExpectations(t)

	list, err := f.docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
