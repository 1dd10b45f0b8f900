package store

import (
	"testing"
	"time"

	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(owner string) *model.WalletRecord {
	return &model.WalletRecord{
		OwnerID:    owner,
		PublicKey:  "pub-" + owner,
		Ciphertext: "00:11",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()

	_, err := s.Get("u1")
	require.True(t, model.IsNotFound(err))

	require.NoError(t, s.Save(testRecord("u1")))

	record, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "pub-u1", record.PublicKey)
}

func TestBadgerStoreRoundtrip(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get("u1")
	require.True(t, model.IsNotFound(err))

	want := testRecord("u1")
	require.NoError(t, s.Save(want))

	got, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, want.PublicKey, got.PublicKey)
	assert.Equal(t, want.Ciphertext, got.Ciphertext)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestBadgerStoreOwners(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	owners, err := s.Owners()
	require.NoError(t, err)
	assert.Empty(t, owners)

	require.NoError(t, s.Save(testRecord("u1")))
	require.NoError(t, s.Save(testRecord("u2")))

	owners, err = s.Owners()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, owners)
}
