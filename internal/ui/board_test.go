package ui_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ganot/projectboard/internal/dom"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/dragdrop"
	"github.com/ganot/projectboard/internal/state"
	"github.com/ganot/projectboard/internal/ui"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func newBoard(t *testing.T) (*ui.Board, *state.ProjectState) {
	t.Helper()
	n := 0
	store := state.New(state.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}))
	board, err := ui.NewBoard(store, project.DefaultRegistry())
	require.NoError(t, err)
	return board, store
}

func list(t *testing.T, b *ui.Board, status project.Status) *ui.ProjectListView {
	t.Helper()
	v, err := b.List(status)
	require.NoError(t, err)
	return v
}

func ids(projects []project.Project) []string {
	out := []string{}
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func plainText(id string) *dragdrop.DragEvent {
	dt := &dragdrop.DataTransfer{}
	dt.SetData(dragdrop.MIMEPlainText, id)
	return dragdrop.NewDragEvent(dt)
}

func TestNewBoard_MountOrder(t *testing.T) {
	board, _ := newBoard(t)

	app := board.Document().GetElementByID("app")
	children := dom.ChildElements(app)
	require.Len(t, children, 3)
	require.Equal(t, "user-input", dom.Attr(children[0], "id"))
	require.Equal(t, "active-projects", dom.Attr(children[1], "id"))
	require.Equal(t, "finished-projects", dom.Attr(children[2], "id"))

	require.Equal(t, "ACTIVE PROJECTS", dom.TextContent(dom.MustQuery(children[1], atom.H2)))
	require.Equal(t, "FINISHED PROJECTS", dom.TextContent(dom.MustQuery(children[2], atom.H2)))
	require.NotNil(t, board.Document().GetElementByID("active-projects-list"))
	require.NotNil(t, board.Document().GetElementByID("finished-projects-list"))
}

func TestNewBoard_MissingHost(t *testing.T) {
	page := strings.Replace(ui.Page(), `<div id="app"></div>`, "", 1)
	_, err := ui.NewBoard(state.New(), project.DefaultRegistry(), ui.WithPage(page))
	require.ErrorIs(t, err, dom.ErrElementNotFound)
}

func TestNewBoard_MissingTemplate(t *testing.T) {
	page := strings.Replace(ui.Page(), `id="project-list"`, `id="renamed"`, 1)
	_, err := ui.NewBoard(state.New(), project.DefaultRegistry(), ui.WithPage(page))
	require.ErrorIs(t, err, dom.ErrElementNotFound)
}

func TestBoard_ListUnknownStatus(t *testing.T) {
	board, _ := newBoard(t)
	_, err := board.List("archived")
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestBoard_AddThenMove(t *testing.T) {
	board, store := newBoard(t)
	active := list(t, board, project.StatusActive)
	finished := list(t, board, project.StatusFinished)

	store.AddProject("Title A", "Desc", 3)
	require.Equal(t, 1, store.Len())
	require.Equal(t, project.StatusActive, store.Projects()[0].Status)

	store.AddProject("Title B", "Desc", 2)
	require.Equal(t, 2, store.Len())

	calls := 0
	store.AddListener(func([]project.Project) { calls++ })

	store.MoveProject("p1", project.StatusFinished)
	require.Equal(t, 1, calls)
	require.Equal(t, []string{"p2"}, ids(active.Assigned()))
	require.Equal(t, []string{"p1"}, ids(finished.Assigned()))

	require.Len(t, active.Items(), 1)
	require.Equal(t, "Title B", dom.TextContent(dom.MustQuery(active.Items()[0].Node(), atom.H2)))
	require.Len(t, finished.Items(), 1)
	require.Equal(t, "p1", dom.Attr(finished.Items()[0].Node(), "id"))
}

func TestBoard_MoveUnknownIDLeavesViews(t *testing.T) {
	board, store := newBoard(t)
	active := list(t, board, project.StatusActive)
	finished := list(t, board, project.StatusFinished)

	store.AddProject("Title A", "Desc", 3)
	store.AddProject("Title B", "Desc", 2)
	store.MoveProject("p1", project.StatusFinished)
	beforeActive, beforeFinished := active.Assigned(), finished.Assigned()
	beforeHTML := board.Render()

	calls := 0
	store.AddListener(func([]project.Project) { calls++ })

	store.MoveProject("nonexistent-id", project.StatusFinished)
	require.Zero(t, calls)
	require.Equal(t, beforeActive, active.Assigned())
	require.Equal(t, beforeFinished, finished.Assigned())
	require.Equal(t, beforeHTML, board.Render())
}

func TestProjectListView_ActiveIsOrderedSubset(t *testing.T) {
	board, store := newBoard(t)
	active := list(t, board, project.StatusActive)

	for i := 0; i < 12; i++ {
		store.AddProject(fmt.Sprintf("Title %d", i), "Desc", 1+i%5)
	}
	for i := 1; i <= 12; i += 3 {
		store.MoveProject(fmt.Sprintf("p%d", i), project.StatusFinished)
	}
	store.MoveProject("p4", project.StatusActive)

	want := project.FilterByStatus(store.Projects(), project.StatusActive)
	require.Equal(t, want, active.Assigned())

	rows := dom.ChildElements(board.Document().GetElementByID(active.ListID()))
	require.Len(t, rows, len(want))
	for i, row := range rows {
		require.Equal(t, want[i].ID, dom.Attr(row, "id"))
	}
}

func TestProjectItem_Render(t *testing.T) {
	board, store := newBoard(t)
	store.AddProject("Solo", "One person job", 1)
	store.AddProject("Team", "Several people", 4)

	items := list(t, board, project.StatusActive).Items()
	require.Len(t, items, 2)

	solo := items[0].Node()
	require.Equal(t, "true", dom.Attr(solo, "draggable"))
	require.Equal(t, "Solo", dom.TextContent(dom.MustQuery(solo, atom.H2)))
	require.Equal(t, "1 person assigned", dom.TextContent(dom.MustQuery(solo, atom.H3)))
	require.Equal(t, "One person job", dom.TextContent(dom.MustQuery(solo, atom.P)))
	require.Equal(t, "4 persons assigned", dom.TextContent(dom.MustQuery(items[1].Node(), atom.H3)))
}

func TestProjectItem_DragStart(t *testing.T) {
	board, store := newBoard(t)
	store.AddProject("Title A", "Desc", 3)

	ev := dragdrop.NewDragEvent(nil)
	require.NoError(t, board.DispatchToItem("p1", dragdrop.EventDragStart, ev))
	require.Equal(t, []string{dragdrop.MIMEPlainText}, ev.DataTransfer.Types)
	require.Equal(t, "p1", ev.DataTransfer.GetData(dragdrop.MIMEPlainText))
	require.Equal(t, "move", ev.DataTransfer.EffectAllowed)

	require.NoError(t, board.DispatchToItem("p1", dragdrop.EventDragEnd, ev))
	require.ErrorIs(t, board.DispatchToItem("p9", dragdrop.EventDragStart, ev), project.ErrProjectNotFound)
}

func TestProjectListView_DragAffordance(t *testing.T) {
	board, _ := newBoard(t)
	finished := list(t, board, project.StatusFinished)

	tests := []struct {
		name      string
		types     []string
		droppable bool
	}{
		{name: "plain text", types: []string{dragdrop.MIMEPlainText}, droppable: true},
		{name: "plain text first", types: []string{dragdrop.MIMEPlainText, "text/html"}, droppable: true},
		{name: "other type first", types: []string{"text/html", dragdrop.MIMEPlainText}},
		{name: "no payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := dragdrop.NewDragEvent(&dragdrop.DataTransfer{Types: tt.types})
			_, err := board.DispatchToList(project.StatusFinished, dragdrop.EventDragOver, ev)
			require.NoError(t, err)
			require.Equal(t, tt.droppable, ev.DefaultPrevented())
			require.Equal(t, tt.droppable, finished.Droppable())

			_, err = board.DispatchToList(project.StatusFinished, dragdrop.EventDragLeave, ev)
			require.NoError(t, err)
			require.False(t, finished.Droppable())
		})
	}
}

func TestProjectListView_Drop(t *testing.T) {
	board, store := newBoard(t)
	active := list(t, board, project.StatusActive)
	finished := list(t, board, project.StatusFinished)
	store.AddProject("Title A", "Desc", 3)

	_, err := board.DispatchToList(project.StatusFinished, dragdrop.EventDragOver, plainText("p1"))
	require.NoError(t, err)
	require.True(t, finished.Droppable())

	_, err = board.DispatchToList(project.StatusFinished, dragdrop.EventDrop, plainText("p1"))
	require.NoError(t, err)
	require.False(t, finished.Droppable())
	require.Empty(t, active.Assigned())
	require.Equal(t, []string{"p1"}, ids(finished.Assigned()))

	// Dropping onto the list it already sits in changes nothing.
	calls := 0
	store.AddListener(func([]project.Project) { calls++ })
	_, err = board.DispatchToList(project.StatusFinished, dragdrop.EventDrop, plainText("p1"))
	require.NoError(t, err)
	require.Zero(t, calls)
}

func TestBoard_DispatchToListRejectsItemEvents(t *testing.T) {
	board, _ := newBoard(t)
	_, err := board.DispatchToList(project.StatusActive, dragdrop.EventDragStart, plainText("p1"))
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectInput_Submit(t *testing.T) {
	board, store := newBoard(t)
	form := board.Input()

	proj, err := form.Submit(project.Input{Title: "  Board  ", Description: " Build the board ", People: 2})
	require.NoError(t, err)
	require.Equal(t, "Board", proj.Title)
	require.Equal(t, "Build the board", proj.Description)
	require.Equal(t, project.StatusActive, proj.Status)
	require.Equal(t, 1, store.Len())

	require.Empty(t, form.Value(project.FieldTitle))
	require.Empty(t, form.Value(project.FieldDescription))
	require.Empty(t, form.Value(project.FieldPeople))
}

func TestProjectInput_SubmitInvalid(t *testing.T) {
	board, store := newBoard(t)
	form := board.Input()

	calls := 0
	store.AddListener(func([]project.Project) { calls++ })

	_, err := form.Submit(project.Input{Title: "Board", Description: "abc", People: 7})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Equal(t, []*project.FieldError{
		{Field: project.FieldDescription, Rule: "min_length=5"},
		{Field: project.FieldPeople, Rule: "max=5"},
	}, project.FieldErrors(err))
	require.Zero(t, store.Len())
	require.Zero(t, calls)

	require.Equal(t, "Board", form.Value(project.FieldTitle))
	require.Equal(t, "abc", form.Value(project.FieldDescription))
	require.Equal(t, "7", form.Value(project.FieldPeople))
}

func TestBoard_Fragment(t *testing.T) {
	board, store := newBoard(t)
	store.AddProject("Title <A>", "Desc & more", 3)

	frag, err := board.Fragment()
	require.NoError(t, err)
	require.Contains(t, frag, `id="user-input"`)
	require.Contains(t, frag, `<li id="p1" draggable="true">`)
	require.Contains(t, frag, "Title &lt;A&gt;")
	require.NotContains(t, frag, "<template")
}
