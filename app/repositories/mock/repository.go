package mock

import (
	"context"
	"sort"
	"sync"

	"socialnet/app/models"
	"socialnet/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.UserRepository = (*UserRepository)(nil)
	_ repositories.PostRepository = (*PostRepository)(nil)
)

// UserRepository is an in-memory UserRepository. When Err is set every call fails with it.
type UserRepository struct {
	users map[primitive.ObjectID]models.User
	mutex sync.RWMutex
	Err   error
}

// PostRepository is an in-memory PostRepository. When Err is set every call fails with it.
type PostRepository struct {
	posts map[primitive.ObjectID]models.Post
	mutex sync.RWMutex
	Err   error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[primitive.ObjectID]models.Post)}
}

// NewStore returns a Store over fresh in-memory repositories.
func NewStore() (*repositories.Store, *UserRepository, *PostRepository) {
	users, posts := NewUserRepository(), NewPostRepository()
	return repositories.NewStore(users, posts, nil), users, posts
}

func (m *UserRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.users = make(map[primitive.ObjectID]models.User)
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.ErrConflict
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, user := range m.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *UserRepository) Update(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.users[user.ID]; !exists {
		return models.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return models.ErrConflict
		}
	}
	user.BeforeUpdate()
	if err := user.Validate(); err != nil {
		return err
	}
	m.users[user.ID] = *user
	return nil
}

func (m *UserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.users[id]; !exists {
		return models.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[primitive.ObjectID]models.Post)
}

// PostRepository implementation
func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	stored := *post
	stored.User = nil
	stored.Comments = append([]string{}, post.Comments...)
	m.posts[post.ID] = stored
	return nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	return m.filter(func(models.Post) bool { return true })
}

func (m *PostRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Post, error) {
	return m.filter(func(p models.Post) bool { return p.UserID == userID })
}

func (m *PostRepository) Update(_ context.Context, id primitive.ObjectID, changes models.PostChanges) (*models.Post, error) {
	var before models.Post
	err := m.modify(id, func(p *models.Post) {
		before = *p
		p.Apply(changes)
	})
	if err != nil {
		return nil, err
	}
	return &before, nil
}

func (m *PostRepository) Delete(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, models.ErrNotFound
	}
	delete(m.posts, id)
	return &post, nil
}

func (m *PostRepository) AddComment(_ context.Context, id primitive.ObjectID, comment string) (*models.Post, error) {
	var after models.Post
	err := m.modify(id, func(p *models.Post) {
		p.Comments = append(append([]string{}, p.Comments...), comment)
		after = *p
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

func (m *PostRepository) IncrementLikes(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	var after models.Post
	err := m.modify(id, func(p *models.Post) {
		p.LikeCount++
		after = *p
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// Get returns a stored post without going through the interface, for assertions.
func (m *PostRepository) Get(id primitive.ObjectID) (models.Post, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	post, ok := m.posts[id]
	return post, ok
}

func (m *PostRepository) modify(id primitive.ObjectID, mutate func(p *models.Post)) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return models.ErrNotFound
	}
	mutate(&post)
	if err := post.Validate(); err != nil {
		return err
	}
	m.posts[id] = post
	return nil
}

func (m *PostRepository) filter(keep func(models.Post) bool) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var posts []*models.Post
	for _, post := range m.posts {
		if keep(post) {
			p := post
			posts = append(posts, &p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.Hex() > posts[j].ID.Hex()
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}
