package guard

import (
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// AuthState - источник признака авторизации для роутера
type AuthState interface {
	IsAuthenticated() bool
}

// Location - текущее положение роутера
type Location struct {
	Route    Route             `json:"route"`
	Path     string            `json:"path"`
	Params   map[string]string `json:"params,omitempty"`
	Query    url.Values        `json:"query,omitempty"`
	Decision string            `json:"decision"`
}

// Router - навигатор внутри процесса. Каждый переход проходит через Decide
type Router struct {
	mu      sync.Mutex
	auth    AuthState
	current Location
	history []string
	log     *zap.Logger
}

func NewRouter(auth AuthState, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{auth: auth, log: log}
}

// SetAuth подключает источник авторизации после создания хранилища сессии
func (r *Router) SetAuth(auth AuthState) {
	r.mu.Lock()
	r.auth = auth
	r.mu.Unlock()
}

// Navigate реализует store.Navigator
func (r *Router) Navigate(path string) {
	r.Push(path)
}

// Push выполняет переход и возвращает итоговое положение.
// Редирект выполняется не более одного раза
func (r *Router) Push(path string) Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	authenticated := r.auth != nil && r.auth.IsAuthenticated()
	loc, d := r.resolve(path, authenticated)
	if d.Action != Proceed {
		r.log.Debug("navigation redirected",
			zap.String("from", path),
			zap.String("to", d.Location),
			zap.Stringer("action", d.Action),
		)
		loc, _ = r.resolve(d.Location, authenticated)
		loc.Decision = d.Action.String()
	}
	r.current = loc
	r.history = append(r.history, loc.Path)
	return loc
}

func (r *Router) resolve(path string, authenticated bool) (Location, Decision) {
	u, err := url.Parse(path)
	if err != nil {
		u = &url.URL{Path: path}
	}
	route, params, _ := Match(u.Path)
	d := Decide(route.Meta, authenticated, u.RequestURI(), "")
	return Location{
		Route:    route,
		Path:     u.RequestURI(),
		Params:   params,
		Query:    u.Query(),
		Decision: d.Action.String(),
	}, d
}

func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
