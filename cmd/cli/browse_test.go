package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloffame/wof/internal/models"
	"github.com/walloffame/wof/internal/navigation"
)

type fakeSource struct {
	all  []models.WinRecord
	mine []models.WinRecord
	err  error
}

func (f *fakeSource) FetchAllWins(context.Context) ([]models.WinRecord, error) {
	return f.all, f.err
}

func (f *fakeSource) FetchMyWins(context.Context) ([]models.WinRecord, error) {
	return f.mine, f.err
}

type fakeSession struct {
	loggedIn bool
}

func (f *fakeSession) IsLoggedIn() bool {
	return f.loggedIn
}

func newTestBrowseModel(source *fakeSource, session *fakeSession) browseModel {
	return newBrowseModel(context.Background(), source, session, navigation.NewGuard(session, navigation.Login))
}

func update(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	model, ok := next.(browseModel)
	require.True(t, ok)
	return model, cmd
}

func TestBrowse_LoadsAllWins(t *testing.T) {
	source := &fakeSource{all: []models.WinRecord{
		models.WinRecord(`{"title":"Shipped v1"}`),
		models.WinRecord(`{"title":"Fixed CI"}`),
	}}
	m := newTestBrowseModel(source, &fakeSession{})

	msg := m.fetch(viewAllWins)()
	m, _ = update(t, m, msg)

	assert.False(t, m.loading)
	assert.Equal(t, 2, m.count)
	assert.Contains(t, m.View(), "Shipped v1")
	assert.Contains(t, m.View(), "LOGGED OUT")
}

func TestBrowse_MyWinsNeedsSession(t *testing.T) {
	m := newTestBrowseModel(&fakeSource{}, &fakeSession{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})

	assert.Nil(t, cmd)
	assert.Equal(t, viewAllWins, m.view)
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "Not logged in")
}

func TestBrowse_MyWinsWithSession(t *testing.T) {
	source := &fakeSource{mine: []models.WinRecord{models.WinRecord(`{"title":"Mine"}`)}}
	m := newTestBrowseModel(source, &fakeSession{loggedIn: true})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	require.NotNil(t, cmd)
	assert.Equal(t, viewMyWins, m.view)
	assert.True(t, m.loading)

	m, _ = update(t, m, m.fetch(viewMyWins)())
	assert.Equal(t, 1, m.count)
	assert.Contains(t, m.View(), "My wins")
}

func TestBrowse_IgnoresResultsForOtherView(t *testing.T) {
	m := newTestBrowseModel(&fakeSource{}, &fakeSession{loggedIn: true})
	m.view = viewMyWins

	m, _ = update(t, m, winsLoadedMsg{view: viewAllWins, wins: []models.WinRecord{models.WinRecord(`{}`)}})

	assert.True(t, m.loading)
	assert.Equal(t, 0, m.count)
}

func TestBrowse_LogoutElsewhereLeavesMyWins(t *testing.T) {
	session := &fakeSession{loggedIn: true}
	m := newTestBrowseModel(&fakeSource{}, session)
	m.view = viewMyWins
	m.loading = false

	session.loggedIn = false
	m, cmd := update(t, m, sessionTickMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, viewAllWins, m.view)
	assert.False(t, m.loggedIn)
	assert.Contains(t, m.notice, "Logged out")
}

func TestBrowse_LoginElsewhere(t *testing.T) {
	session := &fakeSession{}
	m := newTestBrowseModel(&fakeSource{}, session)

	session.loggedIn = true
	m, _ = update(t, m, sessionTickMsg{})

	assert.True(t, m.loggedIn)
	assert.Equal(t, "Logged in", m.notice)
	assert.Contains(t, m.View(), "LOGGED IN")
}

func TestBrowse_FetchErrorIsShown(t *testing.T) {
	m := newTestBrowseModel(&fakeSource{err: errors.New("Failed to fetch wins")}, &fakeSession{})

	m, _ = update(t, m, m.fetch(viewAllWins)())

	assert.False(t, m.loading)
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.View(), "Failed to fetch wins")
}

func TestBrowse_Quit(t *testing.T) {
	m := newTestBrowseModel(&fakeSource{}, &fakeSession{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
}
