package state_test

import (
	"fmt"
	"testing"

	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/state"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() state.Option {
	n := 0
	return state.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("p%d", n)
	})
}

func TestProjectState_AddProject(t *testing.T) {
	s := state.New()
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		before := s.Len()
		proj := s.AddProject(fmt.Sprintf("Title %d", i), "Desc", 1+i%5)
		require.Equal(t, before+1, s.Len())
		require.Equal(t, project.StatusActive, proj.Status)
		require.NotEmpty(t, proj.ID)
		require.False(t, seen[proj.ID], "duplicate id %s", proj.ID)
		seen[proj.ID] = true
	}
}

func TestProjectState_AddProjectNotifiesWithSnapshot(t *testing.T) {
	s := state.New(sequentialIDs())

	var got [][]project.Project
	s.AddListener(func(projects []project.Project) {
		got = append(got, projects)
	})

	s.AddProject("Title A", "Desc", 3)
	s.AddProject("Title B", "Desc", 2)

	require.Len(t, got, 2)
	require.Len(t, got[0], 1)
	require.Len(t, got[1], 2)
	require.Equal(t, "p1", got[1][0].ID)
	require.Equal(t, "p2", got[1][1].ID)
}

func TestProjectState_ListenerNotRetroactive(t *testing.T) {
	s := state.New()
	s.AddProject("Title A", "Desc", 3)

	calls := 0
	s.AddListener(func([]project.Project) { calls++ })
	require.Zero(t, calls)

	s.AddProject("Title B", "Desc", 2)
	require.Equal(t, 1, calls)
}

func TestProjectState_SnapshotIsolation(t *testing.T) {
	s := state.New(sequentialIDs())
	s.AddListener(func(projects []project.Project) {
		projects[0].Status = project.StatusFinished
		projects[0].Title = "mutated"
	})

	var second []project.Project
	s.AddListener(func(projects []project.Project) { second = projects })

	s.AddProject("Title A", "Desc", 3)

	require.Equal(t, "Title A", second[0].Title)
	require.Equal(t, project.StatusActive, second[0].Status)

	stored, err := s.Get("p1")
	require.NoError(t, err)
	require.Equal(t, "Title A", stored.Title)
	require.Equal(t, project.StatusActive, stored.Status)
}

func TestProjectState_MoveProjectIdempotent(t *testing.T) {
	s := state.New(sequentialIDs())
	s.AddProject("Title A", "Desc", 3)

	calls := 0
	s.AddListener(func([]project.Project) { calls++ })

	require.True(t, s.MoveProject("p1", project.StatusFinished))
	require.False(t, s.MoveProject("p1", project.StatusFinished))
	require.Equal(t, 1, calls)

	proj, err := s.Get("p1")
	require.NoError(t, err)
	require.Equal(t, project.StatusFinished, proj.Status)
}

func TestProjectState_MoveUnknownID(t *testing.T) {
	s := state.New(sequentialIDs())
	s.AddProject("Title A", "Desc", 3)
	before := s.Projects()

	calls := 0
	s.AddListener(func([]project.Project) { calls++ })

	require.NotPanics(t, func() {
		require.False(t, s.MoveProject("nonexistent-id", project.StatusFinished))
	})
	require.Zero(t, calls)
	require.Equal(t, before, s.Projects())
}

func TestProjectState_MoveKeepsPosition(t *testing.T) {
	s := state.New(sequentialIDs())
	s.AddProject("Title A", "Desc", 3)
	s.AddProject("Title B", "Desc", 2)
	s.AddProject("Title C", "Desc", 1)

	s.MoveProject("p2", project.StatusFinished)

	ids := []string{}
	for _, p := range s.Projects() {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestProjectState_ListenerOrder(t *testing.T) {
	s := state.New()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		s.AddListener(func([]project.Project) { order = append(order, name) })
	}

	s.AddProject("Title A", "Desc", 3)
	s.AddProject("Title B", "Desc", 3)

	require.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, order)
}

func TestProjectState_ListenerAddedDuringNotification(t *testing.T) {
	s := state.New()

	lateCalls := 0
	added := false
	s.AddListener(func([]project.Project) {
		if !added {
			added = true
			s.AddListener(func([]project.Project) { lateCalls++ })
		}
	})

	s.AddProject("Title A", "Desc", 3)
	require.Zero(t, lateCalls)

	s.AddProject("Title B", "Desc", 3)
	require.Equal(t, 1, lateCalls)
}

func TestProjectState_GetUnknown(t *testing.T) {
	s := state.New()
	_, err := s.Get("missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestDefault_IsSingleton(t *testing.T) {
	require.Same(t, state.Default(), state.Default())
}
