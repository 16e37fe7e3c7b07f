package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	"github.com/oksasatya/sp-website-api/internal/infrastructure/memory"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []UserEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := body.(UserEvent); ok {
		p.events = append(p.events, evt)
	}
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeIndex struct {
	docs map[int64]UserSummary
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[int64]UserSummary{}} }

func (f *fakeIndex) IndexUser(_ context.Context, u *entity.User) error {
	f.docs[u.ID] = NewUserSummary(u)
	return nil
}

func (f *fakeIndex) DeleteUser(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) SearchUsers(_ context.Context, q string, size int) ([]UserSummary, error) {
	out := []UserSummary{}
	for _, d := range f.docs {
		if d.Email == q || d.Name == q {
			out = append(out, d)
		}
	}
	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}

type fixture struct {
	repo     *memory.UserRepository
	jwt      *helpers.JWTManager
	events   *recordingPublisher
	index    *fakeIndex
	auth     *AuthService
	users    *UserService
	resolver *IdentityResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   memory.NewUserRepository(),
		jwt:    helpers.NewJWTManager(testSecret, 30*time.Minute, 7*24*time.Hour),
		events: &recordingPublisher{},
		index:  newFakeIndex(),
	}
	hasher := helpers.NewPasswordHasher(bcrypt.MinCost)
	f.auth = NewAuthService(f.repo, f.jwt, hasher, f.events, f.index, nil)
	f.users = NewUserService(f.repo, hasher, f.events, f.index, nil)
	f.resolver = NewIdentityResolver(f.repo, f.jwt, nil)
	return f
}

func (f *fixture) register(t *testing.T, email, name string) *entity.User {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{Email: email, Name: name, Password: "pw123456"})
	require.NoError(t, err)
	u, err := f.repo.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T, email string) *entity.User {
	t.Helper()
	u := f.register(t, email, "Admin")
	u.Role = entity.RoleAdmin
	require.NoError(t, f.repo.Update(context.Background(), u))
	return u
}
