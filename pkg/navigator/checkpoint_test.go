package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoint_ReturnTruncatesPath(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()

	pushPages(root, 1, 2)
	root.Checkpoint("two")
	pushPages(root, 3, 4, 5)
	require.Equal(t, 5, root.Count())

	assert.True(t, root.ReturnToCheckpoint("two"))
	assert.Equal(t, []any{Page{N: 1}, Page{N: 2}}, values(root.Path()))
}

func TestCheckpoint_ReturnDoesNotGrowPath(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()

	pushPages(root, 1, 2, 3)
	root.Checkpoint("three")
	root.PopTo(1)

	assert.True(t, root.ReturnToCheckpoint("three"))
	assert.Equal(t, 1, root.Count())
}

func TestCheckpoint_Capture(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()

	pushPages(root, 1)
	root.Navigate(Login{Reason: "r"})
	root.CheckpointWith("login", "payload")

	cp, ok := s.LookupCheckpoint("login")
	require.True(t, ok)
	assert.Equal(t, "login", cp.Name)
	assert.Equal(t, RootID, cp.StackID)
	assert.Equal(t, 1, cp.Depth)
	assert.True(t, cp.Sheet)
	assert.False(t, cp.Cover)
	assert.Equal(t, "payload", cp.Data)

	_, ok = s.LookupCheckpoint("missing")
	assert.False(t, ok)
}

func TestCheckpoint_ModalRules(t *testing.T) {
	t.Run("modal absent at capture is dismissed", func(t *testing.T) {
		s, _ := newTestSession(t)
		root := s.Root()
		root.Checkpoint("bare")
		root.Navigate(Login{})
		root.Navigate(Onboarding{})

		require.True(t, root.ReturnToCheckpoint("bare"))
		assert.False(t, root.State().IsPresenting())
	})

	t.Run("modal present at capture stays", func(t *testing.T) {
		s, _ := newTestSession(t)
		root := s.Root()
		root.Navigate(Login{})
		root.Checkpoint("with-sheet")
		root.Navigate(Onboarding{})

		require.True(t, root.ReturnToCheckpoint("with-sheet"))
		_, sheet := root.Sheet()
		_, cover := root.Cover()
		assert.True(t, sheet)
		assert.False(t, cover)
	})

	t.Run("modals below are dismissed", func(t *testing.T) {
		s, _ := newTestSession(t)
		root := s.Root()
		home := root.Mount("home", PlacementTab)
		root.Checkpoint("top")
		home.Navigate(Login{})
		hosted := home.Mount("login-flow", PlacementSheet)

		require.True(t, root.ReturnToCheckpoint("top"))
		assert.False(t, home.State().IsPresenting())
		assert.False(t, hosted.IsMounted())
		assert.True(t, home.IsMounted())
	})
}

func TestCheckpoint_NoOps(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()
	pushPages(root, 1, 2)

	assert.False(t, root.ReturnToCheckpoint("unknown"))
	assert.Equal(t, 2, root.Count())

	home := root.Mount("home", PlacementTab)
	home.Checkpoint("home-start")
	home.Unmount()

	assert.False(t, root.ReturnToCheckpoint("home-start"))
	_, ok := s.LookupCheckpoint("home-start")
	assert.False(t, ok)

	home.Checkpoint("late")
	_, ok = s.LookupCheckpoint("late")
	assert.False(t, ok)

	root.Checkpoint("")
	assert.Empty(t, root.State().Checkpoints())
}

func TestCheckpoint_NameMovesBetweenStacks(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()
	home := root.Mount("home", PlacementTab)

	pushPages(root, 1)
	root.Checkpoint("shared")
	pushPages(home, 1, 2)
	home.Checkpoint("shared")

	cp, ok := s.LookupCheckpoint("shared")
	require.True(t, ok)
	assert.Equal(t, "home", cp.StackID)
	_, ok = root.State().Checkpoint("shared")
	assert.False(t, ok)

	pushPages(home, 3)
	pushPages(root, 2)
	require.True(t, root.ReturnToCheckpoint("shared"))
	assert.Equal(t, 2, home.Count())
	assert.Equal(t, 2, root.Count())
}

func TestCheckpoint_RecapturedNameKeepsLatest(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()

	pushPages(root, 1)
	root.Checkpoint("mark")
	first, _ := s.LookupCheckpoint("mark")
	pushPages(root, 2, 3)
	root.Checkpoint("mark")
	second, _ := s.LookupCheckpoint("mark")

	assert.Equal(t, 3, second.Depth)
	assert.Greater(t, second.Sequence, first.Sequence)
	assert.Len(t, root.State().Checkpoints(), 1)
}

func TestOnCheckpointReturn_DeliversMatchingType(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()
	home := root.Mount("home", PlacementTab)

	pushPages(home, 1)
	home.Checkpoint("pick")
	pushPages(home, 2, 3)

	var picked []Note
	var depthAtDelivery int
	OnCheckpointReturn(home, "pick", func(n Note, nav *Navigator) {
		picked = append(picked, n)
		depthAtDelivery = nav.Count()
	})
	otherCalls := 0
	OnCheckpointReturn(home, "other", func(n Note, _ *Navigator) { otherCalls++ })

	broadcasts := 0
	ReceiveValue(root, func(n Note) Resume { broadcasts++; return Cancel() })

	require.True(t, root.ReturnToCheckpointWith("pick", Note("chosen")))
	assert.Equal(t, []Note{"chosen"}, picked)
	assert.Equal(t, 1, depthAtDelivery)
	assert.Equal(t, 0, otherCalls)
	assert.Equal(t, 0, broadcasts)

	pushPages(home, 4)
	require.True(t, root.ReturnToCheckpointWith("pick", Page{N: 9}))
	assert.Len(t, picked, 1)
	assert.Equal(t, 1, home.Count())
}

func TestOnCheckpointReturn_IgnoresPlainSend(t *testing.T) {
	s, _ := newTestSession(t)
	root := s.Root()
	root.Checkpoint("pick")

	calls := 0
	OnCheckpointReturn(root, "pick", func(n Note, _ *Navigator) { calls++ })
	root.Send(Note("x"))

	assert.Equal(t, 0, calls)
	assert.False(t, root.ReturnToCheckpointWith("nope", Note("x")))
	assert.Equal(t, 0, calls)
}
