package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000000"

type kvStub struct {
	set func(context.Context, string, interface{}, time.Duration) error
	get func(context.Context, string) (string, error)
	del func(context.Context, string) error
}

func (s kvStub) Set(ctx context.Context, k string, v interface{}, exp time.Duration) error {
	return s.set(ctx, k, v, exp)
}
func (s kvStub) Get(ctx context.Context, k string) (string, error) { return s.get(ctx, k) }
func (s kvStub) Del(ctx context.Context, k string) error           { return s.del(ctx, k) }

func TestNewSessionStoreValidation(t *testing.T) {
	_, err := NewSessionStore(nil, "zz")
	assert.Error(t, err)

	_, err = NewSessionStore(nil, "0011")
	assert.Error(t, err)

	store, err := NewSessionStore(nil, testKeyHex)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSessionStoreEncryptDecrypt(t *testing.T) {
	store, err := NewSessionStore(nil, testKeyHex)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, enc)

	dec, err := store.decrypt(enc)
	require.NoError(t, err)
	assert.Contains(t, string(dec), `"x":1`)

	_, err = store.decrypt("00")
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestSessionStoreCreateGetDelete(t *testing.T) {
	cli, srv := newMiniClient(t)
	store, err := NewSessionStore(cli, testKeyHex)
	require.NoError(t, err)

	ctx := context.Background()
	err = store.CreateSession(ctx, "sid-ok", &SessionData{UserID: "u-1", AccessToken: "a-ok", RefreshToken: "r-ok"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, srv.Exists(sessionKeyPrefix+"sid-ok"))

	data, err := store.GetSession(ctx, "sid-ok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", data.UserID)
	assert.Equal(t, "a-ok", data.AccessToken)
	assert.Equal(t, "r-ok", data.RefreshToken)
	assert.False(t, data.CreatedAt.IsZero())

	require.NoError(t, store.DeleteSession(ctx, "sid-ok"))
	_, err = store.GetSession(ctx, "sid-ok")
	assert.True(t, IsNil(err))
}

func TestSessionStoreExpires(t *testing.T) {
	cli, srv := newMiniClient(t)
	store, err := NewSessionStore(cli, testKeyHex)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, "sid-ttl", &SessionData{AccessToken: "a"}, time.Minute))
	srv.FastForward(2 * time.Minute)

	_, err = store.GetSession(ctx, "sid-ttl")
	assert.Error(t, err)
}

func TestSessionStore_GetSessionInvalidJSONPayload(t *testing.T) {
	cli, _ := newMiniClient(t)
	store, err := NewSessionStore(cli, testKeyHex)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte("plain-text"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, cli.Set(ctx, sessionKeyPrefix+"sid-bad-json", enc, time.Minute))

	_, err = store.GetSession(ctx, "sid-bad-json")
	assert.Error(t, err)
}

func TestSessionStore_KVErrors(t *testing.T) {
	boom := errors.New("kv down")
	store, err := NewSessionStore(kvStub{
		set: func(context.Context, string, interface{}, time.Duration) error { return boom },
		get: func(context.Context, string) (string, error) { return "", boom },
		del: func(context.Context, string) error { return boom },
	}, testKeyHex)
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, store.CreateSession(ctx, "sid", &SessionData{AccessToken: "a"}, time.Minute), boom)
	_, err = store.GetSession(ctx, "sid")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.DeleteSession(ctx, "sid"), boom)
}

func TestSessionStore_CreateSession_MarshalError(t *testing.T) {
	store, err := NewSessionStore(nil, testKeyHex)
	require.NoError(t, err)

	orig := marshalSessionJSON
	t.Cleanup(func() { marshalSessionJSON = orig })
	marshalSessionJSON = func(v interface{}) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	err = store.CreateSession(context.Background(), "sid", &SessionData{AccessToken: "a"}, time.Minute)
	assert.Error(t, err)
}
