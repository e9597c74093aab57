package product

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catalog-api/internal/core/cache"
	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/repo"
	"catalog-api/internal/testutil"
)

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(routingKey string, payload any) error {
	return m.Called(routingKey, payload).Error(0)
}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T, opts ...Option) (*Service, *gorm.DB, *domain.User) {
	t.Helper()
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@test.com", domain.RoleAdmin)
	return NewService(repo.NewProductRepo(db), zap.NewNop(), opts...), db, owner
}

func jeans() CreateProductInput {
	return CreateProductInput{Title: "Blue Jean's", Sizes: []string{"M"}, Gender: "unisex"}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, jeans(), owner)
	require.NoError(t, err)
	assert.Equal(t, "blue_jeans", v.Slug)
	assert.Equal(t, []string{}, v.Tags)
	assert.Equal(t, []string{}, v.Images)
	require.NotNil(t, v.User)
	assert.Equal(t, owner.ID, v.User.ID)

	in := jeans()
	in.Title = "Other"
	in.Slug = ptr("My Own Slug")
	in.Images = []string{"a.jpg", "b.jpg"}
	v, err = svc.Create(ctx, in, owner)
	require.NoError(t, err)
	assert.Equal(t, "my_own_slug", v.Slug)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, v.Images)
}

func TestCreateDuplicateTitleIsBadRequest(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, jeans(), owner)
	require.NoError(t, err)

	_, err = svc.Create(ctx, jeans(), owner)
	require.Error(t, err)
	assert.Equal(t, 400, errs.CodeOf(err))
}

func TestCreateWithoutActorIsMisconfigured(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Create(context.Background(), jeans(), nil)
	assert.Equal(t, 500, errs.CodeOf(err))
}

func TestFindOneBySlugTitleOrID(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, jeans(), owner)
	require.NoError(t, err)

	for _, term := range []string{"Blue_Jeans", "BLUE JEAN'S", "blue jean's", created.ID} {
		p, err := svc.FindOne(ctx, term)
		require.NoError(t, err, term)
		assert.Equal(t, created.ID, p.ID, term)
	}

	_, err = svc.FindOne(ctx, "nothing-here")
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.FindOne(ctx, "5b1e6f4a-8a8e-4c7b-9d6b-3f7c2a1d0e9f")
	assert.True(t, errs.IsNotFound(err))
}

func TestFindOnePlainFlattensImages(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Images = []string{"x.png", "y.png"}
	created, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)

	v, err := svc.FindOnePlain(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.png", "y.png"}, v.Images)
	require.NotNil(t, v.User)
	assert.Equal(t, owner.Email, v.User.Email)
}

func TestFindAllPaginatesInStoredOrder(t *testing.T) {
	svc, db, owner := setup(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	titles := []string{"first", "second", "third"}
	for i, title := range titles {
		p := &domain.Product{
			Title:     title,
			Sizes:     datatypes.JSONSlice[string]{"M"},
			Gender:    "men",
			UserID:    owner.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(p).Error)
	}

	got, err := svc.FindAll(ctx, domain.Pagination{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Title)

	got, err = svc.FindAll(ctx, domain.Pagination{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestUpdateReplacesImagesAndOwner(t *testing.T) {
	svc, db, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Images = []string{"a", "b"}
	created, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)

	editor := testutil.CreateUser(t, db, "editor@test.com", domain.RoleAdmin)
	v, err := svc.Update(ctx, created.ID, UpdateProductInput{
		Title:  ptr("Red Shirt"),
		Images: &[]string{"c", "d", "e"},
	}, editor)
	require.NoError(t, err)
	assert.Equal(t, "Red Shirt", v.Title)
	assert.Equal(t, "blue_jeans", v.Slug)
	assert.Equal(t, []string{"c", "d", "e"}, v.Images)
	require.NotNil(t, v.User)
	assert.Equal(t, editor.ID, v.User.ID)

	// 未提供 images 时保留原有图片
	v, err = svc.Update(ctx, created.ID, UpdateProductInput{Stock: ptr(7)}, editor)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Stock)
	assert.Equal(t, []string{"c", "d", "e"}, v.Images)

	v, err = svc.Update(ctx, created.ID, UpdateProductInput{Images: &[]string{}}, editor)
	require.NoError(t, err)
	assert.Empty(t, v.Images)
}

func TestUpdateKeepsExplicitSlug(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Title = "Shirt"
	in.Slug = ptr("Summer Tee")
	a, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)
	require.Equal(t, "summer_tee", a.Slug)

	// 另一个商品占用了由标题推导出的 slug
	other := jeans()
	other.Title = "Other"
	other.Slug = ptr("shirt")
	_, err = svc.Create(ctx, other, owner)
	require.NoError(t, err)

	v, err := svc.Update(ctx, a.ID, UpdateProductInput{Stock: ptr(3)}, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Stock)
	assert.Equal(t, "summer_tee", v.Slug)

	// 标题改了但没给 slug，仍保留原 slug
	v, err = svc.Update(ctx, a.ID, UpdateProductInput{Title: ptr("Winter Shirt")}, owner)
	require.NoError(t, err)
	assert.Equal(t, "summer_tee", v.Slug)

	v, err = svc.Update(ctx, a.ID, UpdateProductInput{Slug: ptr("Winter Tee")}, owner)
	require.NoError(t, err)
	assert.Equal(t, "winter_tee", v.Slug)
}

func TestCachedLookupSeesUpdates(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	svc, _, owner := setup(t, WithCache(c, time.Minute))
	ctx := context.Background()

	created, err := svc.Create(ctx, jeans(), owner)
	require.NoError(t, err)

	v, err := svc.FindOnePlain(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Stock)
	assert.True(t, mr.Exists("catalog:product:"+created.ID))

	_, err = svc.Update(ctx, created.ID, UpdateProductInput{Stock: ptr(9)}, owner)
	require.NoError(t, err)
	v, err = svc.FindOnePlain(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, v.Stock)

	require.NoError(t, svc.Remove(ctx, created.ID))
	assert.False(t, mr.Exists("catalog:product:"+created.ID))
	_, err = svc.FindOnePlain(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateRollsBackOnBadUserReference(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Images = []string{"a", "b"}
	created, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)

	ghost := &domain.User{ID: "00000000-0000-4000-8000-000000000000", FullName: "ghost"}
	_, err = svc.Update(ctx, created.ID, UpdateProductInput{
		Title:  ptr("Changed"),
		Images: &[]string{"c"},
	}, ghost)
	require.Error(t, err)

	p, err := svc.FindOnePlain(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Images)
	assert.Equal(t, "Blue Jean's", p.Title)
	assert.Equal(t, owner.ID, p.User.ID)
}

func TestUpdateRollsBackOnDuplicateTitle(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Images = []string{"a", "b"}
	x, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)

	other := jeans()
	other.Title = "Taken"
	_, err = svc.Create(ctx, other, owner)
	require.NoError(t, err)

	_, err = svc.Update(ctx, x.ID, UpdateProductInput{
		Title:  ptr("Taken"),
		Images: &[]string{"c"},
	}, owner)
	require.Error(t, err)
	assert.Equal(t, 400, errs.CodeOf(err))

	p, err := svc.FindOnePlain(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Images)
	assert.Equal(t, "blue_jeans", p.Slug)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _, owner := setup(t)
	_, err := svc.Update(context.Background(), "5b1e6f4a-8a8e-4c7b-9d6b-3f7c2a1d0e9f", UpdateProductInput{}, owner)
	assert.True(t, errs.IsNotFound(err))
}

func TestRemove(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	in := jeans()
	in.Images = []string{"a"}
	created, err := svc.Create(ctx, in, owner)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.FindOne(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))

	err = svc.Remove(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteAll(t *testing.T) {
	svc, _, owner := setup(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		in := jeans()
		in.Title = title
		in.Images = []string{title + ".jpg"}
		_, err := svc.Create(ctx, in, owner)
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteAll(ctx))

	got, err := svc.FindAll(ctx, domain.Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEventsArePublished(t *testing.T) {
	pub := new(publisherMock)
	svc, _, owner := setup(t, WithEvents(pub))
	ctx := context.Background()

	pub.On("Publish", EventCreated, mock.AnythingOfType("product.Event")).Return(nil).Once()
	pub.On("Publish", EventUpdated, mock.MatchedBy(func(ev Event) bool {
		return ev.Product != nil && ev.Product.Stock == 3 && ev.ActorID == owner.ID
	})).Return(nil).Once()
	pub.On("Publish", EventDeleted, mock.AnythingOfType("product.Event")).Return(assert.AnError).Once()

	created, err := svc.Create(ctx, jeans(), owner)
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, UpdateProductInput{Stock: ptr(3)}, owner)
	require.NoError(t, err)
	// 发布失败只记日志
	require.NoError(t, svc.Remove(ctx, created.ID))

	pub.AssertExpectations(t)
}
