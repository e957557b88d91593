// service/listing/listing_service_test.go
package listingsvc

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julian-wei213/327Qbnb/model"
)

type memStore struct {
	users    map[int64]*model.User
	listings map[int64]*model.Listing
	nextID   int64
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*model.User{},
		listings: map[int64]*model.Listing{},
	}
}

func (m *memStore) Transact(ctx context.Context, fn func(Repo) error) error {
	return fn(m)
}

func (m *memStore) ListAll(ctx context.Context) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range m.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range m.listings {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memStore) FindByID(ctx context.Context, id int64) (*model.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) FindByTitle(ctx context.Context, title string) (*model.Listing, error) {
	for _, l := range m.listings {
		if l.Title == title {
			cp := *l
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) Insert(ctx context.Context, l *model.Listing) error {
	m.nextID++
	l.ID = m.nextID
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, l *model.Listing) error {
	if _, ok := m.listings[l.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStore) FindOwner(ctx context.Context, userID int64) (*model.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) addUser(id int64, email string) {
	m.users[id] = &model.User{ID: id, Username: "owner", Email: email, Balance: 100}
}

const goodDescription = "A nice loft in the city center"

var goodDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestService(store *memStore) *service {
	s := New(store).(*service)
	s.now = func() time.Time { return time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

// --- create ---

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	l, err := svc.Create(ctx, "Loft 5", goodDescription, 500.0, goodDate, 1)
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NotZero(t, l.ID)
	require.Equal(t, "Loft 5", l.Title)
	require.Equal(t, goodDescription, l.Description)
	require.Equal(t, 500.0, l.Price)
	require.Equal(t, goodDate, l.LastModifiedDate)
	require.Equal(t, int64(1), l.OwnerID)
}

func TestCreate_TitleRules(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	for _, title := range []string{"", " Loft", "Loft ", "Lo_ft", strings.Repeat("x", 81)} {
		_, err := svc.Create(ctx, title, strings.Repeat("d", 100), 500.0, goodDate, 1)
		require.Equal(t, ErrBadTitle, Code(err), "title %q", title)
	}
}

func TestCreate_DescriptionRules(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	_, err := svc.Create(ctx, "Loft 5", strings.Repeat("d", 19), 500.0, goodDate, 1)
	require.Equal(t, ErrBadDescription, Code(err))

	_, err = svc.Create(ctx, "Loft 5", strings.Repeat("d", 2001), 500.0, goodDate, 1)
	require.Equal(t, ErrBadDescription, Code(err))

	// description must be strictly longer than the title
	title := strings.Repeat("t", 30)
	_, err = svc.Create(ctx, title, strings.Repeat("d", 30), 500.0, goodDate, 1)
	require.Equal(t, ErrBadDescription, Code(err))

	_, err = svc.Create(ctx, title, strings.Repeat("d", 31), 500.0, goodDate, 1)
	require.NoError(t, err)
}

func TestCreate_MultibyteLengths(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	// a 40-character accented title is 80 bytes; the 50-character
	// description is still strictly longer in characters
	title := strings.Repeat("é", 40)
	_, err := svc.Create(ctx, title, strings.Repeat("d", 50), 500.0, goodDate, 1)
	require.NoError(t, err)

	// bounds count characters too: 2000 accented characters is fine,
	// even though it is 4000 bytes
	_, err = svc.Create(ctx, "Chalet", strings.Repeat("é", 2000), 500.0, goodDate, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Cabin", strings.Repeat("é", 2001), 500.0, goodDate, 1)
	require.Equal(t, ErrBadDescription, Code(err))

	// 10 accented characters is 20 bytes but still too short
	_, err = svc.Create(ctx, "Hut", strings.Repeat("é", 10), 500.0, goodDate, 1)
	require.Equal(t, ErrBadDescription, Code(err))
}

func TestCreate_PriceBounds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	_, err := svc.Create(ctx, "Cheap loft", goodDescription, 9.99, goodDate, 1)
	require.Equal(t, ErrBadPrice, Code(err))

	_, err = svc.Create(ctx, "Pricey loft", goodDescription, 10000.01, goodDate, 1)
	require.Equal(t, ErrBadPrice, Code(err))

	_, err = svc.Create(ctx, "Low bound", goodDescription, 10.0, goodDate, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "High bound", goodDescription, 10000.0, goodDate, 1)
	require.NoError(t, err)
}

func TestCreate_DateWindow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	// endpoints are excluded
	_, err := svc.Create(ctx, "Loft A", goodDescription, 500.0, WindowStart, 1)
	require.Equal(t, ErrBadDate, Code(err))

	_, err = svc.Create(ctx, "Loft B", goodDescription, 500.0, WindowEnd, 1)
	require.Equal(t, ErrBadDate, Code(err))

	_, err = svc.Create(ctx, "Loft C", goodDescription, 500.0, WindowStart.AddDate(0, 0, 1), 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Loft D", goodDescription, 500.0, WindowEnd.AddDate(0, 0, -1), 1)
	require.NoError(t, err)
}

func TestCreate_Owner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	store.addUser(2, "")
	svc := newTestService(store)

	_, err := svc.Create(ctx, "Loft 5", goodDescription, 500.0, goodDate, 42)
	require.Equal(t, ErrOwnerNotFound, Code(err))

	// owner with an empty email does not count
	_, err = svc.Create(ctx, "Loft 5", goodDescription, 500.0, goodDate, 2)
	require.Equal(t, ErrOwnerNotFound, Code(err))
}

func TestCreate_DuplicateTitle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	_, err := svc.Create(ctx, "Loft 5", goodDescription, 500.0, goodDate, 1)
	require.NoError(t, err)

	// second create with the same title fails regardless of other fields
	_, err = svc.Create(ctx, "Loft 5", strings.Repeat("d", 60), 900.0, goodDate.AddDate(0, 1, 0), 1)
	require.Equal(t, ErrTitleTaken, Code(err))
}

// --- update ---

func seedListing(t *testing.T, svc *service, store *memStore, title string, price float64) *model.Listing {
	t.Helper()
	l, err := svc.Create(context.Background(), title, goodDescription, price, goodDate, 1)
	require.NoError(t, err)
	return l
}

func TestUpdate_NoFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	l := seedListing(t, svc, store, "Loft 5", 500.0)

	_, err := svc.Update(ctx, l.ID, Patch{})
	require.Equal(t, ErrNoFields, Code(err))
}

func TestUpdate_PriceMonotonic(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	l := seedListing(t, svc, store, "Loft 5", 500.0)

	for _, p := range []float64{499.99, 500.0, 20.0} {
		price := p
		_, err := svc.Update(ctx, l.ID, Patch{Price: &price})
		require.Equal(t, ErrPriceDecrease, Code(err), "price %v", p)
	}

	price := 500.01
	got, err := svc.Update(ctx, l.ID, Patch{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 500.01, got.Price)

	// out-of-range prices are rejected before the monotonic check
	price = 10000.01
	_, err = svc.Update(ctx, l.ID, Patch{Price: &price})
	require.Equal(t, ErrBadPrice, Code(err))
}

func TestUpdate_StampsModifiedDate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	l := seedListing(t, svc, store, "Loft 5", 500.0)

	title := "Loft 6"
	got, err := svc.Update(ctx, l.ID, Patch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), got.LastModifiedDate)
}

func TestUpdate_StampOutsideWindow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	l := seedListing(t, svc, store, "Loft 5", 500.0)

	svc.now = func() time.Time { return time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC) }

	title := "Loft 6"
	_, err := svc.Update(ctx, l.ID, Patch{Title: &title})
	require.Equal(t, ErrBadDate, Code(err))

	// nothing was applied
	cur, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Loft 5", cur.Title)
	require.Equal(t, goodDate, cur.LastModifiedDate)
}

func TestUpdate_FieldRules(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	l := seedListing(t, svc, store, "Loft 5", 500.0)

	bad := " Loft"
	_, err := svc.Update(ctx, l.ID, Patch{Title: &bad})
	require.Equal(t, ErrBadTitle, Code(err))

	short := strings.Repeat("d", 19)
	_, err = svc.Update(ctx, l.ID, Patch{Description: &short})
	require.Equal(t, ErrBadDescription, Code(err))

	// the description cross-check uses the new title when both change
	title := strings.Repeat("t", 40)
	desc := strings.Repeat("d", 30)
	_, err = svc.Update(ctx, l.ID, Patch{Title: &title, Description: &desc})
	require.Equal(t, ErrBadDescription, Code(err))

	longer := strings.Repeat("d", 41)
	got, err := svc.Update(ctx, l.ID, Patch{Title: &title, Description: &longer})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)
	require.Equal(t, longer, got.Description)

	// the cross-check counts characters: a 40-character accented title is
	// 80 bytes, but a 50-character description still clears it
	wide := strings.Repeat("é", 40)
	plain := strings.Repeat("d", 50)
	got, err = svc.Update(ctx, l.ID, Patch{Title: &wide, Description: &plain})
	require.NoError(t, err)
	require.Equal(t, wide, got.Title)
}

func TestUpdate_TitleUniqueness(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)
	a := seedListing(t, svc, store, "Loft 5", 500.0)
	seedListing(t, svc, store, "Loft 6", 500.0)

	taken := "Loft 6"
	_, err := svc.Update(ctx, a.ID, Patch{Title: &taken})
	require.Equal(t, ErrTitleTaken, Code(err))

	// keeping your own title is not a conflict
	own := "Loft 5"
	desc := strings.Repeat("d", 60)
	_, err = svc.Update(ctx, a.ID, Patch{Title: &own, Description: &desc})
	require.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, "a@b.com")
	svc := newTestService(store)

	title := "Loft 9"
	_, err := svc.Update(ctx, 404, Patch{Title: &title})
	require.Equal(t, ErrNotFound, Code(err))
}
