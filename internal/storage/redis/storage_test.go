package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
	"github.com/mcoot/tictactoe-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
	clock *mocks.MockClock
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.clock = mocks.NewMockClock(storagetest.Epoch)

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.GameTTL = time.Hour

	s.redis = NewWithClient(client, cfg, s.clock)
	s.NewStorage = func() storage.Storage { return s.redis }
	s.Suite.SetupTest()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.redis.Ping(s.Ctx))
}

func (s *StorageSuite) TestKeysUsePrefix() {
	s.Require().NoError(s.Store.SaveGame(s.Ctx, storagetest.SampleGame("game-1", "player-1", storagetest.Epoch)))

	s.True(s.mini.Exists("ttt:game:game-1"))
	members, err := s.mini.SMembers("ttt:idx:games_for_player:player-1")
	s.Require().NoError(err)
	s.Equal([]string{"ttt:game:game-1"}, members)
}

func (s *StorageSuite) TestGuestPlayerExpires() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "guest", IsGuest: true}))
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "member"}))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.Store.GetPlayer(s.Ctx, "guest")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.Store.GetPlayer(s.Ctx, "member")
	s.NoError(err)
}

func (s *StorageSuite) TestSessionTTLFollowsExpiry() {
	session := &model.Session{
		Token:     "sess_1",
		PlayerID:  "player-1",
		ExpiresAt: storagetest.Epoch.Add(30 * time.Minute),
	}
	s.Require().NoError(s.Store.SaveSession(s.Ctx, session))
	s.Equal(30*time.Minute, s.mini.TTL("ttt:session:sess_1"))

	s.mini.FastForward(31 * time.Minute)
	_, err := s.Store.GetSession(s.Ctx, "sess_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestExpiredSessionIsNotStored() {
	session := &model.Session{Token: "sess_old", ExpiresAt: storagetest.Epoch.Add(-time.Minute)}
	s.Require().NoError(s.Store.SaveSession(s.Ctx, session))
	s.False(s.mini.Exists("ttt:session:sess_old"))
}

func (s *StorageSuite) TestListGamesPrunesExpiredEntries() {
	s.Require().NoError(s.Store.SaveGame(s.Ctx, storagetest.SampleGame("game-1", "player-1", storagetest.Epoch)))
	s.mini.Del("ttt:game:game-1")

	games, err := s.Store.ListGamesForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(games)

	members, _ := s.mini.SMembers("ttt:idx:games_for_player:player-1")
	s.Empty(members)
}

func (s *StorageSuite) TestGetGameCorruptData() {
	s.Require().NoError(s.mini.Set("ttt:game:bad", "{not json"))
	_, err := s.Store.GetGame(s.Ctx, "bad")
	s.Error(err)
	s.NotErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "staging"
	store := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg, s.clock)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SaveGame(s.Ctx, storagetest.SampleGame("game-2", "player-1", storagetest.Epoch)))
	s.True(s.mini.Exists("staging:game:game-2"))
	s.False(s.mini.Exists("ttt:game:game-2"))

	// The default-prefixed store does not see it
	_, err := s.Store.GetGame(s.Ctx, "game-2")
	s.ErrorIs(err, model.ErrGameNotFound)
}
