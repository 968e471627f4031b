package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	ctx := context.Background()

	t.Run("選択済みならプロンプトしない", func(t *testing.T) {
		b := &mockBroker{selected: true}

		prompted := Gate(ctx, b)

		assert.False(t, prompted)
		assert.Equal(t, 0, b.promptCalls)
	})

	t.Run("未選択なら一度だけプロンプトして再確認せずに続行する", func(t *testing.T) {
		b := &mockBroker{}

		prompted := Gate(ctx, b)

		assert.True(t, prompted)
		assert.Equal(t, 1, b.promptCalls)
		assert.Equal(t, 1, b.hasCalls, "no re-check after prompting")
	})

	t.Run("キャンセルされても続行する", func(t *testing.T) {
		b := &mockBroker{promptErr: errUserCancelled}

		prompted := Gate(ctx, b)

		assert.True(t, prompted)
		assert.Equal(t, 1, b.promptCalls)
	})

	t.Run("Broker が nil なら何もしない", func(t *testing.T) {
		assert.False(t, Gate(ctx, nil))
	})
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	cred, err := Static("key-1").Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "key-1", cred.APIKey)

	_, err = Static("").Current(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestEnvBroker(t *testing.T) {
	ctx := context.Background()
	env := map[string]string{"SECOND": "from-second", "EMPTY": ""}
	b := NewEnvBroker("FIRST", "EMPTY", "SECOND")
	b.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cred, err := b.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-second", cred.APIKey)
	assert.True(t, b.HasSelectedCredential(ctx))
	assert.NoError(t, b.PromptSelectCredential(ctx))

	delete(env, "SECOND")
	assert.False(t, b.HasSelectedCredential(ctx))
}

func TestMemoryBroker(t *testing.T) {
	ctx := context.Background()

	t.Run("プロンプトで選択待ちになり、Select で解除される", func(t *testing.T) {
		b := NewMemoryBroker(nil)
		assert.False(t, b.HasSelectedCredential(ctx))

		require.NoError(t, b.PromptSelectCredential(ctx))
		assert.True(t, b.PromptPending())

		b.Select("paid-key")
		assert.False(t, b.PromptPending())

		cred, err := b.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "paid-key", cred.APIKey)
	})

	t.Run("未選択時は fallback を使う", func(t *testing.T) {
		b := NewMemoryBroker(Static("env-key"))

		cred, err := b.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "env-key", cred.APIKey)

		b.Select("chosen")
		cred, _ = b.Current(ctx)
		assert.Equal(t, "chosen", cred.APIKey)
	})
}
