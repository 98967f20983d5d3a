package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/auth"
	"github.com/dmitrijs2005/flava/internal/server/cache"
	"github.com/dmitrijs2005/flava/internal/server/repositories/memory"
	"github.com/dmitrijs2005/flava/internal/server/repositories/repomanager"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	kind, email, username, token string
}

type capturingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *capturingNotifier) SendVerification(email, username, token string) {
	n.record("verify", email, username, token)
}

func (n *capturingNotifier) SendPasswordReset(email, username, token string) {
	n.record("reset", email, username, token)
}

func (n *capturingNotifier) record(kind, email, username, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind, email, username, token})
}

func (n *capturingNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

func newTokens(t *testing.T) Tokens {
	t.Helper()
	sessions, err := auth.NewCodec([]byte("session-secret"), "HS256")
	require.NoError(t, err)
	actions, err := auth.NewCodec([]byte("action-secret"), "HS256")
	require.NoError(t, err)
	return Tokens{
		Hasher:     auth.NewHasher(bcrypt.MinCost),
		Sessions:   sessions,
		Actions:    actions,
		SessionTTL: 30 * time.Minute,
	}
}

type fixture struct {
	store    *memory.Store
	rm       repomanager.RepositoryManager
	users    *UserService
	recipes  *RecipeService
	notifier *capturingNotifier
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := memory.NewStore()
	rm := repomanager.NewMemoryRepositoryManager(store)
	n := &capturingNotifier{}
	c := cache.NewWithClient(rdb, logging.Nop{})

	return &fixture{
		store:    store,
		rm:       rm,
		users:    NewUserService(memory.DB{}, rm, newTokens(t), n, logging.Nop{}),
		recipes:  NewRecipeService(memory.DB{}, rm, c, nil, logging.Nop{}),
		notifier: n,
		redis:    mr,
	}
}

var ctx = context.Background()
