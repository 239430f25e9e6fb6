// Package navigation decides whether a view may be entered given the
// current session.
package navigation

import (
	"github.com/sirupsen/logrus"
)

// Action is the outcome of evaluating a navigation.
type Action int

const (
	Proceed Action = iota
	Redirect
)

func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Destination is a view the user can navigate to.
type Destination struct {
	Name         string
	Path         string
	RequiresAuth bool
}

// Decision tells the router what to do with a navigation. Target is the
// requested destination on Proceed and the login destination on Redirect.
type Decision struct {
	Action    Action
	Target    Destination
	Requested Destination
}

func (d Decision) Redirected() bool {
	return d.Action == Redirect
}

// SessionChecker is the part of the session store the guard reads.
type SessionChecker interface {
	IsLoggedIn() bool
}

// Guard sends navigations to protected destinations to the login
// destination when there is no session.
type Guard struct {
	session SessionChecker
	login   Destination
}

func NewGuard(session SessionChecker, login Destination) *Guard {
	return &Guard{session: session, login: login}
}

// Evaluate runs synchronously and must be called before the destination's
// view does any work.
func (g *Guard) Evaluate(dest Destination) Decision {
	if dest.RequiresAuth && !g.session.IsLoggedIn() {
		logrus.WithFields(logrus.Fields{
			"destination": dest.Name,
			"redirect":    g.login.Name,
		}).Debugln("Redirecting unauthenticated navigation")

		return Decision{Action: Redirect, Target: g.login, Requested: dest}
	}

	return Decision{Action: Proceed, Target: dest, Requested: dest}
}

// LoginDestination returns where redirected navigations are sent.
func (g *Guard) LoginDestination() Destination {
	return g.login
}
