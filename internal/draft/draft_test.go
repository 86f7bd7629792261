package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mariana/devlink-assistant/internal/conversation"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/transcript"
	"github.com/mariana/devlink-assistant/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() Draft {
	log := transcript.NewLog()
	log.AppendMessage(transcript.RoleAssistant, "What is your full name?")
	log.AppendMessage(transcript.RoleUser, "Ana Silva")

	state := conversation.State{Step: conversation.StepPersonal, SubStep: conversation.SubEmail}
	return Draft{
		State: state,
		Record: types.ConversationRecord{
			PersonalInfo: types.PersonalInfo{FullName: "Ana Silva"},
		},
		Transcript: log.All(),
		Progress:   conversation.Progress(state),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())
	saved := sampleDraft()

	require.NoError(t, store.Save(ctx, "u1", saved))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, saved.State, loaded.State)
	assert.Equal(t, saved.Record, loaded.Record)
	assert.Equal(t, saved.Progress, loaded.Progress)
	require.Len(t, loaded.Transcript, 2)
	assert.Equal(t, saved.Transcript[0].ID, loaded.Transcript[0].ID)
	assert.Equal(t, saved.Transcript[1].Text, loaded.Transcript[1].Text)
	assert.False(t, loaded.LastModified.IsZero())
}

func TestStoreLoadAbsent(t *testing.T) {
	loaded, err := NewStore(kv.NewMemory()).Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreDiscard(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())

	require.NoError(t, store.Save(ctx, "u1", sampleDraft()))
	require.NoError(t, store.Discard(ctx, "u1"))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestResumable(t *testing.T) {
	d := sampleDraft()
	assert.True(t, (&d).Resumable())

	d.Progress = 100
	assert.False(t, (&d).Resumable())

	var nilDraft *Draft
	assert.False(t, nilDraft.Resumable())
}

func TestSaverDebouncesBursts(t *testing.T) {
	ctx := context.Background()
	memory := kv.NewMemory()
	store := NewStore(memory)
	saver := NewSaver(store, 50*time.Millisecond, zerolog.Nop())
	defer saver.Close()

	first := sampleDraft()
	second := sampleDraft()
	second.Progress = 40

	// Rapid-fire schedules within the window: only the last snapshot lands.
	saver.Schedule("u1", first)
	saver.Schedule("u1", second)

	// No write lands before the quiet window elapses.
	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.Eventually(t, func() bool {
		loaded, err := store.Load(ctx, "u1")
		return err == nil && loaded != nil && loaded.Progress == 40
	}, time.Second, 5*time.Millisecond)
}

func TestSaverZeroWindowSavesImmediately(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())
	saver := NewSaver(store, 0, zerolog.Nop())
	defer saver.Close()

	saver.Schedule("u1", sampleDraft())

	assert.Eventually(t, func() bool {
		d, err := store.Load(ctx, "u1")
		return err == nil && d != nil
	}, time.Second, time.Millisecond)
}

func TestSaverFlushPersistsImmediately(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())
	saver := NewSaver(store, time.Hour, zerolog.Nop())

	saver.Schedule("u1", sampleDraft())
	saver.Flush()

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Ana Silva", loaded.Record.PersonalInfo.FullName)
}

func TestSaverCancelDropsPending(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())
	saver := NewSaver(store, 10*time.Millisecond, zerolog.Nop())

	saver.Schedule("u1", sampleDraft())
	saver.Cancel()

	time.Sleep(50 * time.Millisecond)

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

// gateStore holds its first Set open until released, so a test can interleave
// an in-flight write with later ones.
type gateStore struct {
	kv.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateStore) Set(ctx context.Context, key, value string) error {
	gated := false
	g.once.Do(func() { gated = true })
	if gated {
		close(g.entered)
		<-g.release
	}
	return g.Store.Set(ctx, key, value)
}

func TestSaverDelayedWriteCannotRegressNewerSnapshot(t *testing.T) {
	ctx := context.Background()
	gate := &gateStore{Store: kv.NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	store := NewStore(gate)
	saver := NewSaver(store, time.Millisecond, zerolog.Nop())
	defer saver.Close()

	older := sampleDraft()
	older.Progress = 10
	saver.Schedule("u1", older)

	// The older snapshot's write is now in flight, held open at the store.
	<-gate.entered

	newer := sampleDraft()
	newer.Progress = 40
	saver.Schedule("u1", newer)

	close(gate.release)
	saver.Flush()

	// The newer snapshot wins no matter which write finishes first.
	assert.Eventually(t, func() bool {
		loaded, err := store.Load(ctx, "u1")
		return err == nil && loaded != nil && loaded.Progress == 40
	}, time.Second, 5*time.Millisecond)
}

func TestSaverClosedRejectsSchedule(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())
	saver := NewSaver(store, time.Millisecond, zerolog.Nop())
	saver.Close()

	saver.Schedule("u1", sampleDraft())
	time.Sleep(20 * time.Millisecond)

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
