package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

// memDB backs the fake repositories with plain maps.
type memDB struct {
	mu          sync.Mutex
	listings    map[string]*models.Listing
	media       map[string]*models.ListingMedia
	history     []*models.StatusHistory
	leads       []*models.Lead
	memberships map[string]*models.Membership
	roles       map[string]string
	clock       time.Time
}

func newMemDB() *memDB {
	return &memDB{
		listings:    map[string]*models.Listing{},
		media:       map[string]*models.ListingMedia{},
		memberships: map[string]*models.Membership{},
		roles:       map[string]string{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) historyFor(listingID string) []*models.StatusHistory {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.StatusHistory
	for _, h := range db.history {
		if h.ListingID == listingID {
			out = append(out, h)
		}
	}
	return out
}

func (db *memDB) listingStatus(id string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if l, ok := db.listings[id]; ok {
		return l.Status
	}
	return ""
}

func (db *memDB) mediaStatus(id string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m, ok := db.media[id]; ok {
		return m.Status
	}
	return ""
}

func (db *memDB) addListing(id, owner, status string) *models.Listing {
	db.mu.Lock()
	defer db.mu.Unlock()
	l := &models.Listing{ID: id, OwnerID: owner, Title: "Listing " + id, City: "Pune", ContactPhone: "9000000000", Status: status}
	db.listings[id] = l
	return l
}

func (db *memDB) addMedia(id, listingID, status string, order int) *models.ListingMedia {
	db.mu.Lock()
	defer db.mu.Unlock()
	m := &models.ListingMedia{
		ID: id, ListingID: listingID, FileName: id + ".jpg", ContentType: "image/jpeg",
		Path: "listings/" + listingID + "/" + id + ".jpg", Status: status, DisplayOrder: order, CreatedAt: db.tick(),
	}
	db.media[id] = m
	return m
}

type fakeTx struct {
	fail error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if f.fail != nil {
		return f.fail
	}
	return fn(nil)
}

type fakeListings struct{ db *memDB }

// racingListings runs beforeLock once, just before the lock is granted, to
// let a competing transaction commit first.
type racingListings struct {
	*fakeListings
	beforeLock func()
}

func (r *racingListings) LockByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error) {
	if fn := r.beforeLock; fn != nil {
		r.beforeLock = nil
		fn()
	}
	return r.fakeListings.LockByID(ctx, tx, id)
}

func (r *fakeListings) Create(ctx context.Context, tx *sql.Tx, l *models.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l.CreatedAt = r.db.tick()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.db.listings[l.ID] = &cp
	return nil
}

func (r *fakeListings) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListings) LockByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeListings) Update(ctx context.Context, tx *sql.Tx, l *models.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.listings[l.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *l
	r.db.listings[l.ID] = &cp
	return nil
}

func (r *fakeListings) UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if l, ok := r.db.listings[id]; ok {
		l.Status = status
	}
	return nil
}

func (r *fakeListings) Remove(ctx context.Context, tx *sql.Tx, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.listings, id)
	kept := r.db.history[:0]
	for _, h := range r.db.history {
		if h.ListingID != id {
			kept = append(kept, h)
		}
	}
	r.db.history = kept
	return nil
}

func (r *fakeListings) summaries(match func(*models.Listing) bool) []*models.ListingSummary {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.ListingSummary{}
	for _, l := range r.db.listings {
		if !match(l) {
			continue
		}
		count := 0
		for _, m := range r.db.media {
			if m.ListingID == l.ID {
				count++
			}
		}
		out = append(out, &models.ListingSummary{ID: l.ID, Title: l.Title, City: l.City, Status: l.Status, Price: l.Price, MediaCount: count, CreatedAt: l.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeListings) ListByOwner(ctx context.Context, ownerID string) ([]*models.ListingSummary, error) {
	return r.summaries(func(l *models.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r *fakeListings) ListApproved(ctx context.Context, f *transfer.PublicListingFilter) ([]*models.ListingSummary, error) {
	all := r.summaries(func(l *models.Listing) bool {
		return l.Status == models.StatusApproved && (f.City == "" || strings.EqualFold(l.City, f.City))
	})
	if f.Offset >= len(all) {
		return []*models.ListingSummary{}, nil
	}
	all = all[f.Offset:]
	if len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (r *fakeListings) GetApproved(ctx context.Context, id string) (*models.Listing, error) {
	l, _ := r.GetByID(ctx, nil, id)
	if l == nil || l.Status != models.StatusApproved {
		return nil, nil
	}
	return l, nil
}

func (r *fakeListings) SuggestTitles(ctx context.Context, q string, limit int) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, l := range r.db.listings {
		if strings.Contains(strings.ToLower(l.Title), strings.ToLower(q)) && !seen[l.Title] {
			seen[l.Title] = true
			out = append(out, l.Title)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeListings) ListApprovedWithUnapprovedMedia(ctx context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := map[string]bool{}
	for _, m := range r.db.media {
		if l, ok := r.db.listings[m.ListingID]; ok && l.Status == models.StatusApproved && m.Status != models.StatusApproved {
			ids[l.ID] = true
		}
	}
	out := []string{}
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

type fakeMedia struct{ db *memDB }

func (r *fakeMedia) Create(ctx context.Context, tx *sql.Tx, m *models.ListingMedia) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.CreatedAt = r.db.tick()
	cp := *m
	r.db.media[m.ID] = &cp
	return nil
}

func (r *fakeMedia) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.ListingMedia, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedia) GetByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error) {
	m, _ := r.GetByID(ctx, tx, id)
	if m == nil || m.ListingID != listingID {
		return nil, nil
	}
	return m, nil
}

func (r *fakeMedia) LockByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error) {
	return r.GetByListing(ctx, tx, listingID, id)
}

func (r *fakeMedia) filter(match func(*models.ListingMedia) bool) []*models.ListingMedia {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.ListingMedia{}
	for _, m := range r.db.media {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeMedia) ListByListingID(ctx context.Context, tx *sql.Tx, listingID string) ([]*models.ListingMedia, error) {
	return r.filter(func(m *models.ListingMedia) bool { return m.ListingID == listingID }), nil
}

func (r *fakeMedia) ListApprovedByListingID(ctx context.Context, listingID string) ([]*models.ListingMedia, error) {
	return r.filter(func(m *models.ListingMedia) bool {
		return m.ListingID == listingID && m.Status == models.StatusApproved
	}), nil
}

func (r *fakeMedia) ListPending(ctx context.Context) ([]*models.PendingMedia, error) {
	pending := r.filter(func(m *models.ListingMedia) bool { return m.Status == models.StatusPending })
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.PendingMedia{}
	for _, m := range pending {
		l := r.db.listings[m.ListingID]
		out = append(out, &models.PendingMedia{ListingMedia: *m, ListingTitle: l.Title, ListingCity: l.City})
	}
	return out, nil
}

func (r *fakeMedia) UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.media[id]; ok {
		m.Status = status
	}
	return nil
}

func (r *fakeMedia) UpdateCaption(ctx context.Context, listingID, id, caption string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok || m.ListingID != listingID {
		return false, nil
	}
	m.Caption = caption
	return true, nil
}

func (r *fakeMedia) UpdateDisplayOrder(ctx context.Context, tx *sql.Tx, listingID, id string, order int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.media[id]; ok && m.ListingID == listingID {
		m.DisplayOrder = order
	}
	return nil
}

func (r *fakeMedia) CountNotApproved(ctx context.Context, tx *sql.Tx, listingID string) (int, error) {
	return len(r.filter(func(m *models.ListingMedia) bool {
		return m.ListingID == listingID && m.Status != models.StatusApproved
	})), nil
}

func (r *fakeMedia) MaxDisplayOrder(ctx context.Context, tx *sql.Tx, listingID string) (int, error) {
	max := -1
	for _, m := range r.filter(func(m *models.ListingMedia) bool { return m.ListingID == listingID }) {
		if m.DisplayOrder > max {
			max = m.DisplayOrder
		}
	}
	return max, nil
}

func (r *fakeMedia) Remove(ctx context.Context, tx *sql.Tx, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.media, id)
	return nil
}

func (r *fakeMedia) RemoveByListingID(ctx context.Context, tx *sql.Tx, listingID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, m := range r.db.media {
		if m.ListingID == listingID {
			delete(r.db.media, id)
		}
	}
	return nil
}

type fakeHistory struct{ db *memDB }

func (r *fakeHistory) Create(ctx context.Context, tx *sql.Tx, h *models.StatusHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	h.CreatedAt = r.db.tick()
	cp := *h
	r.db.history = append(r.db.history, &cp)
	return nil
}

func (r *fakeHistory) ListByListingID(ctx context.Context, listingID string) ([]*models.StatusHistory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.StatusHistory{}
	for i := len(r.db.history) - 1; i >= 0; i-- {
		if r.db.history[i].ListingID == listingID {
			out = append(out, r.db.history[i])
		}
	}
	return out, nil
}

type fakeLeads struct {
	db   *memDB
	fail error
}

func (r *fakeLeads) Create(ctx context.Context, lead *models.Lead) error {
	if r.fail != nil {
		return r.fail
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	lead.CreatedAt = r.db.tick()
	cp := *lead
	r.db.leads = append(r.db.leads, &cp)
	return nil
}

func (r *fakeLeads) List(ctx context.Context, f *transfer.LeadFilter) ([]*models.LeadWithListing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.LeadWithListing{}
	for i := len(r.db.leads) - 1; i >= 0; i-- {
		ld := r.db.leads[i]
		l := r.db.listings[ld.ListingID]
		if f.City != "" && !strings.EqualFold(l.City, f.City) {
			continue
		}
		out = append(out, &models.LeadWithListing{
			Lead:    *ld,
			Listing: models.LeadListing{ID: l.ID, Title: l.Title, City: l.City, State: l.State},
		})
	}
	return out, nil
}

type fakeProfiles struct {
	db   *memDB
	fail error
}

func (r *fakeProfiles) GetRole(ctx context.Context, userID string) (string, bool, error) {
	if r.fail != nil {
		return "", false, r.fail
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[userID]
	return role, ok, nil
}

type fakeMemberships struct{ db *memDB }

func (r *fakeMemberships) Create(ctx context.Context, m *models.Membership) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *m
	r.db.memberships[m.RazorpayOrderID] = &cp
	return nil
}

func (r *fakeMemberships) ActivateByOrderID(ctx context.Context, orderID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.memberships[orderID]
	if !ok {
		return false, nil
	}
	m.Status = models.MembershipStatusActive
	return true, nil
}

type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	removed    []string
	failUpload map[string]bool
	failSign   map[string]bool
	failRemove bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, failUpload: map[string]bool{}, failSign: map[string]bool{}}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for suffix := range s.failUpload {
		if strings.HasSuffix(key, suffix) {
			return fmt.Errorf("%w: upload %s", ErrStorage, key)
		}
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemove {
		return errors.New("remove failed")
	}
	for _, k := range keys {
		delete(s.objects, k)
		s.removed = append(s.removed, k)
	}
	return nil
}

func (s *fakeStorage) SignedURL(ctx context.Context, key string) (string, error) {
	if s.failSign[key] {
		return "", fmt.Errorf("%w: sign %s", ErrStorage, key)
	}
	return "https://storage.test/" + key + "?sig=1", nil
}

func (s *fakeStorage) objectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fixture struct {
	db         *memDB
	tx         *fakeTx
	listings   *fakeListings
	media      *fakeMedia
	history    *fakeHistory
	storage    *fakeStorage
	moderation ModerationService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:       db,
		tx:       &fakeTx{},
		listings: &fakeListings{db: db},
		media:    &fakeMedia{db: db},
		history:  &fakeHistory{db: db},
		storage:  newFakeStorage(),
	}
	f.moderation = NewModerationService(f.tx, f.listings, f.media, f.history, f.storage)
	return f
}

func (f *fixture) listingService() ListingService {
	return NewListingService(f.tx, f.listings, f.media, f.history, f.storage)
}

func (f *fixture) mediaService() MediaService {
	return NewMediaService(f.tx, f.listings, f.media, f.moderation, f.storage)
}

var (
	_ repository.ListingRepository       = (*fakeListings)(nil)
	_ repository.MediaRepository         = (*fakeMedia)(nil)
	_ repository.StatusHistoryRepository = (*fakeHistory)(nil)
	_ repository.LeadRepository          = (*fakeLeads)(nil)
	_ repository.ProfileRepository       = (*fakeProfiles)(nil)
	_ repository.MembershipRepository    = (*fakeMemberships)(nil)
	_ repository.TxManager               = (*fakeTx)(nil)
)
