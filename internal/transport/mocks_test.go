package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"artgens/internal/domain"
	"artgens/internal/middleware"
	"artgens/internal/repository"
	"artgens/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories backing the handler tests. A single mutex stands in
// for the schema's unique constraints and the checkout transaction.
type stubStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*domain.User
	usersByEmail map[string]uuid.UUID
	usersByName  map[string]uuid.UUID

	categories map[uuid.UUID]*domain.Category

	artworks     map[uuid.UUID]*domain.Artwork
	artworkOrder []uuid.UUID

	likes     map[stubPair]uuid.UUID
	comments  []*domain.Comment
	cartItems map[uuid.UUID]*domain.CartItem
}

type stubPair struct {
	userID    uuid.UUID
	artworkID uuid.UUID
}

func newStubStore() *stubStore {
	return &stubStore{
		users:        make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]uuid.UUID),
		usersByName:  make(map[string]uuid.UUID),
		categories:   make(map[uuid.UUID]*domain.Category),
		artworks:     make(map[uuid.UUID]*domain.Artwork),
		likes:        make(map[stubPair]uuid.UUID),
		cartItems:    make(map[uuid.UUID]*domain.CartItem),
	}
}

type stubUserRepo struct{ store *stubStore }

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.usersByEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	if _, ok := s.store.usersByName[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	s.store.users[user.ID] = user
	s.store.usersByEmail[user.Email] = user.ID
	s.store.usersByName[user.Username] = user.ID
	return nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	id, ok := s.store.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return s.store.users[id], nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	user, ok := s.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type stubCategoryRepo struct{ store *stubStore }

func (s *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]*domain.Category, 0, len(s.store.categories))
	for _, c := range s.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubCategoryRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.store.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCategoryRepo) Seed(_ context.Context, names []string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, name := range names {
		found := false
		for _, c := range s.store.categories {
			if c.Name == name {
				found = true
				break
			}
		}
		if !found {
			id := uuid.New()
			s.store.categories[id] = &domain.Category{ID: id, Name: name}
		}
	}
	return nil
}

type stubArtworkRepo struct{ store *stubStore }

func (s *stubArtworkRepo) Create(_ context.Context, artwork *domain.Artwork, _ []uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cp := *artwork
	s.store.artworks[cp.ID] = &cp
	s.store.artworkOrder = append(s.store.artworkOrder, cp.ID)
	return nil
}

func (s *stubArtworkRepo) Update(_ context.Context, id uuid.UUID, upd repository.ArtworkUpdate) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	artwork, ok := s.store.artworks[id]
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

func (s *stubArtworkRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.artworks[id]; !ok {
		return repository.ErrArtworkNotFound
	}
	for pair := range s.store.likes {
		if pair.artworkID == id {
			delete(s.store.likes, pair)
		}
	}
	kept := s.store.comments[:0]
	for _, c := range s.store.comments {
		if c.ArtworkID != id {
			kept = append(kept, c)
		}
	}
	s.store.comments = kept
	for itemID, item := range s.store.cartItems {
		if item.ArtworkID == id {
			delete(s.store.cartItems, itemID)
		}
	}
	delete(s.store.artworks, id)
	for i, aid := range s.store.artworkOrder {
		if aid == id {
			s.store.artworkOrder = append(s.store.artworkOrder[:i], s.store.artworkOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubArtworkRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Artwork, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	artwork, ok := s.store.artworks[id]
	if !ok {
		return nil, repository.ErrArtworkNotFound
	}
	cp := *artwork
	return &cp, nil
}

func (s *stubArtworkRepo) FindViewByID(_ context.Context, id uuid.UUID) (*domain.ArtworkView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	artwork, ok := s.store.artworks[id]
	if !ok {
		return nil, repository.ErrArtworkNotFound
	}
	return s.viewLocked(artwork), nil
}

func (s *stubArtworkRepo) List(_ context.Context, includeSold bool) ([]*domain.ArtworkView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]*domain.ArtworkView, 0, len(s.store.artworkOrder))
	for _, id := range s.store.artworkOrder {
		artwork := s.store.artworks[id]
		if artwork.IsSold && !includeSold {
			continue
		}
		out = append(out, s.viewLocked(artwork))
	}
	return out, nil
}

func (s *stubArtworkRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	_, ok := s.store.artworks[id]
	return ok, nil
}

func (s *stubArtworkRepo) viewLocked(artwork *domain.Artwork) *domain.ArtworkView {
	view := &domain.ArtworkView{Artwork: *artwork}
	if artist, ok := s.store.users[artwork.ArtistID]; ok {
		view.ArtistName = artist.Username
		view.ArtistBio = artist.Bio
	}
	for pair := range s.store.likes {
		if pair.artworkID == artwork.ID {
			view.LikesCount++
		}
	}
	return view
}

type stubLikeRepo struct{ store *stubStore }

func (s *stubLikeRepo) Toggle(_ context.Context, userID, artworkID uuid.UUID) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pair := stubPair{userID, artworkID}
	if _, ok := s.store.likes[pair]; ok {
		delete(s.store.likes, pair)
		return false, nil
	}
	s.store.likes[pair] = uuid.New()
	return true, nil
}

func (s *stubLikeRepo) CountByArtwork(_ context.Context, artworkID uuid.UUID) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	count := 0
	for pair := range s.store.likes {
		if pair.artworkID == artworkID {
			count++
		}
	}
	return count, nil
}

type stubCommentRepo struct{ store *stubStore }

func (s *stubCommentRepo) Create(_ context.Context, comment *domain.Comment) (*domain.CommentView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cp := *comment
	s.store.comments = append(s.store.comments, &cp)
	view := &domain.CommentView{ID: cp.ID, Content: cp.Content, CreatedAt: cp.CreatedAt}
	if author, ok := s.store.users[cp.UserID]; ok {
		view.Author = author.Username
	}
	return view, nil
}

func (s *stubCommentRepo) ListByArtwork(_ context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := []*domain.CommentView{}
	for _, c := range s.store.comments {
		if c.ArtworkID != artworkID {
			continue
		}
		view := &domain.CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
		if author, ok := s.store.users[c.UserID]; ok {
			view.Author = author.Username
		}
		out = append(out, view)
	}
	return out, nil
}

type stubCartRepo struct{ store *stubStore }

func (s *stubCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.CartItemView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := []*domain.CartItemView{}
	for _, item := range s.store.cartItems {
		if item.UserID != userID {
			continue
		}
		artwork := s.store.artworks[item.ArtworkID]
		out = append(out, &domain.CartItemView{
			ID:        item.ID,
			ArtworkID: item.ArtworkID,
			Title:     artwork.Title,
			Price:     artwork.Price,
			ImageURL:  artwork.ImageURL,
		})
	}
	return out, nil
}

func (s *stubCartRepo) Add(_ context.Context, item *domain.CartItem) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	artwork, ok := s.store.artworks[item.ArtworkID]
	if !ok {
		return repository.ErrArtworkNotFound
	}
	if artwork.IsSold {
		return repository.ErrArtworkSold
	}
	for _, existing := range s.store.cartItems {
		if existing.UserID == item.UserID && existing.ArtworkID == item.ArtworkID {
			return repository.ErrAlreadyInCart
		}
	}
	cp := *item
	s.store.cartItems[cp.ID] = &cp
	return nil
}

func (s *stubCartRepo) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	item, ok := s.store.cartItems[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrCartItemNotFound
	}
	delete(s.store.cartItems, itemID)
	return nil
}

func (s *stubCartRepo) Checkout(_ context.Context, userID uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var itemIDs []uuid.UUID
	for id, item := range s.store.cartItems {
		if item.UserID == userID {
			itemIDs = append(itemIDs, id)
		}
	}
	if len(itemIDs) == 0 {
		return repository.ErrCartEmpty
	}
	for _, id := range itemIDs {
		if s.store.artworks[s.store.cartItems[id].ArtworkID].IsSold {
			return repository.ErrArtworkSold
		}
	}
	for _, id := range itemIDs {
		s.store.artworks[s.store.cartItems[id].ArtworkID].IsSold = true
		delete(s.store.cartItems, id)
	}
	return nil
}

const testJWTSecret = "handler-test-secret"

// testApp wires real services and handlers over the stub repositories,
// behind the same router and middleware stack the server uses.
type testApp struct {
	router chi.Router
	store  *stubStore
	auth   service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := newStubStore()
	logger := zap.NewNop()

	userRepo := &stubUserRepo{store: store}
	artworkRepo := &stubArtworkRepo{store: store}

	authService := service.NewAuthService(userRepo, testJWTSecret)
	catalogService := service.NewCatalogService(artworkRepo, &stubCategoryRepo{store: store}, true)
	socialService := service.NewSocialService(artworkRepo, &stubLikeRepo{store: store}, &stubCommentRepo{store: store})
	cartService := service.NewCartService(&stubCartRepo{store: store}, artworkRepo)

	authMW := middleware.AuthMiddleware(testJWTSecret, logger)
	r := chi.NewRouter()
	NewAuthHandler(authService, logger).RegisterRoutes(r, authMW)
	NewArtworkHandler(catalogService, logger).RegisterRoutes(r, authMW)
	NewSocialHandler(socialService, logger).RegisterRoutes(r, authMW)
	NewCartHandler(cartService, logger).RegisterRoutes(r, authMW)

	return &testApp{router: r, store: store, auth: authService}
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the service and returns it with a
// live session token.
func (app *testApp) registerUser(t *testing.T, username string, isArtist bool) (*domain.User, string) {
	t.Helper()
	user, token, err := app.auth.Register(context.Background(), username, username+"@mail.com", "secret123", isArtist, "")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user, token
}

func (app *testApp) createArtwork(t *testing.T, token, title string, price float64) uuid.UUID {
	t.Helper()
	w := app.do(t, http.MethodPost, "/api/artworks", token, map[string]interface{}{
		"title": title,
		"price": price,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create artwork: %d: %s", w.Code, w.Body.String())
	}
	var resp CreateArtworkResponse
	decodeBody(t, w, &resp)
	id, err := uuid.Parse(resp.ArtworkID)
	if err != nil {
		t.Fatalf("parse artwork id: %v", err)
	}
	return id
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp middleware.ErrorResponse
	decodeBody(t, w, &resp)
	return resp.Error
}
