package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"artgens/internal/domain"
	"artgens/internal/repository"

	"github.com/google/uuid"
)

// memStore backs the mock repositories with a single mutex so that the
// constraint and transaction semantics of the real schema (unique pairs,
// the conditional sold claim) hold under concurrent tests.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*domain.User
	usersByEmail map[string]uuid.UUID
	usersByName  map[string]uuid.UUID

	categories map[uuid.UUID]*domain.Category

	artworks     map[uuid.UUID]*domain.Artwork
	artworkOrder []uuid.UUID
	artworkCats  map[uuid.UUID][]uuid.UUID

	likes     map[pairKey]*domain.Like
	comments  []*domain.Comment
	cartItems map[uuid.UUID]*domain.CartItem
	cartPairs map[pairKey]uuid.UUID
}

type pairKey struct {
	userID    uuid.UUID
	artworkID uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]uuid.UUID),
		usersByName:  make(map[string]uuid.UUID),
		categories:   make(map[uuid.UUID]*domain.Category),
		artworks:     make(map[uuid.UUID]*domain.Artwork),
		artworkCats:  make(map[uuid.UUID][]uuid.UUID),
		likes:        make(map[pairKey]*domain.Like),
		cartItems:    make(map[uuid.UUID]*domain.CartItem),
		cartPairs:    make(map[pairKey]uuid.UUID),
	}
}

func (s *memStore) addCategory(name string) *domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &domain.Category{ID: uuid.New(), Name: name}
	s.categories[c.ID] = c
	return c
}

type mockUserRepository struct {
	store *memStore
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.usersByEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	if _, ok := m.store.usersByName[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	m.store.users[user.ID] = user
	m.store.usersByEmail[user.Email] = user.ID
	m.store.usersByName[user.Username] = user.ID
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	id, ok := m.store.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return m.store.users[id], nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	user, ok := m.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type mockCategoryRepository struct {
	store *memStore
}

func (m *mockCategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Category, 0, len(m.store.categories))
	for _, c := range m.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.store.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) Seed(_ context.Context, names []string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, name := range names {
		exists := false
		for _, c := range m.store.categories {
			if c.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			id := uuid.New()
			m.store.categories[id] = &domain.Category{ID: id, Name: name}
		}
	}
	return nil
}

type mockArtworkRepository struct {
	store *memStore
}

func (m *mockArtworkRepository) Create(_ context.Context, artwork *domain.Artwork, categoryIDs []uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	cp := *artwork
	m.store.artworks[cp.ID] = &cp
	m.store.artworkOrder = append(m.store.artworkOrder, cp.ID)
	for _, cid := range categoryIDs {
		if _, ok := m.store.categories[cid]; ok {
			m.store.artworkCats[cp.ID] = append(m.store.artworkCats[cp.ID], cid)
		}
	}
	return nil
}

func (m *mockArtworkRepository) Update(_ context.Context, id uuid.UUID, upd repository.ArtworkUpdate) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	artwork, ok := m.store.artworks[id]
	if !ok {
		return repository.ErrArtworkNotFound
	}
	if upd.Title != nil {
		artwork.Title = *upd.Title
	}
	if upd.Description != nil {
		artwork.Description = *upd.Description
	}
	if upd.Price != nil {
		artwork.Price = *upd.Price
	}
	if upd.ImageURL != nil {
		artwork.ImageURL = *upd.ImageURL
	}
	return nil
}

func (m *mockArtworkRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.artworks[id]; !ok {
		return repository.ErrArtworkNotFound
	}
	for key := range m.store.likes {
		if key.artworkID == id {
			delete(m.store.likes, key)
		}
	}
	kept := m.store.comments[:0]
	for _, c := range m.store.comments {
		if c.ArtworkID != id {
			kept = append(kept, c)
		}
	}
	m.store.comments = kept
	for itemID, item := range m.store.cartItems {
		if item.ArtworkID == id {
			delete(m.store.cartItems, itemID)
			delete(m.store.cartPairs, pairKey{item.UserID, item.ArtworkID})
		}
	}
	delete(m.store.artworkCats, id)
	delete(m.store.artworks, id)
	for i, aid := range m.store.artworkOrder {
		if aid == id {
			m.store.artworkOrder = append(m.store.artworkOrder[:i], m.store.artworkOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockArtworkRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Artwork, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	artwork, ok := m.store.artworks[id]
	if !ok {
		return nil, repository.ErrArtworkNotFound
	}
	cp := *artwork
	return &cp, nil
}

func (m *mockArtworkRepository) FindViewByID(_ context.Context, id uuid.UUID) (*domain.ArtworkView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	artwork, ok := m.store.artworks[id]
	if !ok {
		return nil, repository.ErrArtworkNotFound
	}
	return m.viewLocked(artwork), nil
}

func (m *mockArtworkRepository) List(_ context.Context, includeSold bool) ([]*domain.ArtworkView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.ArtworkView, 0, len(m.store.artworkOrder))
	for _, id := range m.store.artworkOrder {
		artwork := m.store.artworks[id]
		if artwork.IsSold && !includeSold {
			continue
		}
		out = append(out, m.viewLocked(artwork))
	}
	return out, nil
}

func (m *mockArtworkRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	_, ok := m.store.artworks[id]
	return ok, nil
}

func (m *mockArtworkRepository) viewLocked(artwork *domain.Artwork) *domain.ArtworkView {
	view := &domain.ArtworkView{Artwork: *artwork}
	if artist, ok := m.store.users[artwork.ArtistID]; ok {
		view.ArtistName = artist.Username
		view.ArtistBio = artist.Bio
	}
	for key := range m.store.likes {
		if key.artworkID == artwork.ID {
			view.LikesCount++
		}
	}
	view.CategoryIDs = m.store.artworkCats[artwork.ID]
	return view
}

type mockLikeRepository struct {
	store *memStore
}

func (m *mockLikeRepository) Toggle(_ context.Context, userID, artworkID uuid.UUID) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := pairKey{userID, artworkID}
	if _, ok := m.store.likes[key]; ok {
		delete(m.store.likes, key)
		return false, nil
	}
	m.store.likes[key] = &domain.Like{
		ID:        uuid.New(),
		UserID:    userID,
		ArtworkID: artworkID,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (m *mockLikeRepository) CountByArtwork(_ context.Context, artworkID uuid.UUID) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	count := 0
	for key := range m.store.likes {
		if key.artworkID == artworkID {
			count++
		}
	}
	return count, nil
}

type mockCommentRepository struct {
	store *memStore
}

func (m *mockCommentRepository) Create(_ context.Context, comment *domain.Comment) (*domain.CommentView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	cp := *comment
	m.store.comments = append(m.store.comments, &cp)
	view := &domain.CommentView{
		ID:        cp.ID,
		Content:   cp.Content,
		CreatedAt: cp.CreatedAt,
	}
	if author, ok := m.store.users[cp.UserID]; ok {
		view.Author = author.Username
	}
	return view, nil
}

func (m *mockCommentRepository) ListByArtwork(_ context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []*domain.CommentView
	for _, c := range m.store.comments {
		if c.ArtworkID != artworkID {
			continue
		}
		view := &domain.CommentView{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
		if author, ok := m.store.users[c.UserID]; ok {
			view.Author = author.Username
		}
		out = append(out, view)
	}
	return out, nil
}

type mockCartRepository struct {
	store *memStore
}

func (m *mockCartRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.CartItemView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []*domain.CartItemView
	for _, item := range m.store.cartItems {
		if item.UserID != userID {
			continue
		}
		artwork := m.store.artworks[item.ArtworkID]
		out = append(out, &domain.CartItemView{
			ID:        item.ID,
			ArtworkID: item.ArtworkID,
			Title:     artwork.Title,
			Price:     artwork.Price,
			ImageURL:  artwork.ImageURL,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return m.store.cartItems[out[i].ID].CreatedAt.Before(m.store.cartItems[out[j].ID].CreatedAt)
	})
	return out, nil
}

func (m *mockCartRepository) Add(_ context.Context, item *domain.CartItem) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	artwork, ok := m.store.artworks[item.ArtworkID]
	if !ok {
		return repository.ErrArtworkNotFound
	}
	if artwork.IsSold {
		return repository.ErrArtworkSold
	}
	key := pairKey{item.UserID, item.ArtworkID}
	if _, ok := m.store.cartPairs[key]; ok {
		return repository.ErrAlreadyInCart
	}
	cp := *item
	m.store.cartItems[cp.ID] = &cp
	m.store.cartPairs[key] = cp.ID
	return nil
}

func (m *mockCartRepository) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	item, ok := m.store.cartItems[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrCartItemNotFound
	}
	delete(m.store.cartItems, itemID)
	delete(m.store.cartPairs, pairKey{item.UserID, item.ArtworkID})
	return nil
}

// Checkout mirrors the transactional claim: every artwork in the cart must
// still be unsold or nothing is changed.
func (m *mockCartRepository) Checkout(_ context.Context, userID uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var itemIDs []uuid.UUID
	for id, item := range m.store.cartItems {
		if item.UserID == userID {
			itemIDs = append(itemIDs, id)
		}
	}
	if len(itemIDs) == 0 {
		return repository.ErrCartEmpty
	}
	for _, id := range itemIDs {
		if m.store.artworks[m.store.cartItems[id].ArtworkID].IsSold {
			return repository.ErrArtworkSold
		}
	}
	for _, id := range itemIDs {
		item := m.store.cartItems[id]
		m.store.artworks[item.ArtworkID].IsSold = true
		delete(m.store.cartItems, id)
		delete(m.store.cartPairs, pairKey{item.UserID, item.ArtworkID})
	}
	return nil
}
