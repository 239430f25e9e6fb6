package navigation

import "strings"

// Route names.
const (
	RouteHome     = "home"
	RouteLogin    = "login"
	RouteRegister = "register"
	RouteAddWin   = "add-win"
	RouteMyWins   = "my-wins"
)

var (
	Home     = Destination{Name: RouteHome, Path: "/"}
	Login    = Destination{Name: RouteLogin, Path: "/login"}
	Register = Destination{Name: RouteRegister, Path: "/register"}
	AddWin   = Destination{Name: RouteAddWin, Path: "/add-win", RequiresAuth: true}
	MyWins   = Destination{Name: RouteMyWins, Path: "/profile", RequiresAuth: true}
)

// Routes is a lookup table of destinations by name and by path.
type Routes struct {
	byName map[string]Destination
	byPath map[string]Destination
}

// DefaultRoutes returns the application's route table.
func DefaultRoutes() *Routes {
	return NewRoutes(Home, Login, Register, AddWin, MyWins)
}

func NewRoutes(destinations ...Destination) *Routes {
	r := &Routes{
		byName: make(map[string]Destination, len(destinations)),
		byPath: make(map[string]Destination, len(destinations)),
	}
	for _, d := range destinations {
		r.byName[d.Name] = d
		if len(d.Path) > 0 {
			r.byPath[normalizePath(d.Path)] = d
		}
	}
	return r
}

func (r *Routes) ByName(name string) (Destination, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func (r *Routes) ByPath(path string) (Destination, bool) {
	d, ok := r.byPath[normalizePath(path)]
	return d, ok
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
