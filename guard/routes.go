package guard

import "strings"

const (
	HomePath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"

	// RedirectParam - query-параметр, в котором /login получает исходный путь
	RedirectParam = "redirect"
)

// Meta - требования маршрута к состоянию сессии
type Meta struct {
	RequiresAuth bool `json:"requires_auth"`
	GuestOnly    bool `json:"guest_only"`
}

// Route - запись таблицы маршрутов. Path в синтаксисе gin: /posts/:id
type Route struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Meta Meta   `json:"meta"`
}

// NotFound - маршрут для всего, что не нашлось в таблице. Мета пустая
var NotFound = Route{Name: "NotFound"}

var (
	authOnly  = Meta{RequiresAuth: true}
	guestOnly = Meta{GuestOnly: true}
)

// Routes - таблица маршрутов приложения
var Routes = []Route{
	{Name: "Home", Path: HomePath, Meta: authOnly},
	{Name: "Login", Path: LoginPath, Meta: guestOnly},
	{Name: "Register", Path: RegisterPath, Meta: guestOnly},
	{Name: "Logout", Path: "/logout"},
	{Name: "Profile", Path: "/profile/:username", Meta: authOnly},
	{Name: "Follow", Path: "/profile/:username/follow", Meta: authOnly},
	{Name: "Unfollow", Path: "/profile/:username/unfollow", Meta: authOnly},
	{Name: "UpdateMe", Path: "/me", Meta: authOnly},
	{Name: "UploadProfilePicture", Path: "/me/profile-picture", Meta: authOnly},
	{Name: "UploadBackgroundImage", Path: "/me/background-image", Meta: authOnly},
	{Name: "PostDetail", Path: "/posts/:id", Meta: authOnly},
	{Name: "PostComments", Path: "/posts/:id/comments", Meta: authOnly},
	{Name: "PostVote", Path: "/posts/:id/vote", Meta: authOnly},
	{Name: "PostDelete", Path: "/posts/:id/delete", Meta: authOnly},
	{Name: "CreatePost", Path: "/create-post", Meta: authOnly},
	{Name: "EditPost", Path: "/edit-post/:id", Meta: authOnly},
	{Name: "Reels", Path: "/reels", Meta: authOnly},
	{Name: "ReelDetail", Path: "/reels/:id", Meta: authOnly},
	{Name: "ReelLike", Path: "/reels/:id/like", Meta: authOnly},
	{Name: "ReelComments", Path: "/reels/:id/comments", Meta: authOnly},
	{Name: "StateStream", Path: "/ws/state", Meta: authOnly},
}

// ByPattern ищет маршрут по шаблону пути, как его возвращает gin FullPath
func ByPattern(pattern string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == pattern {
			return r, true
		}
	}
	return NotFound, false
}

// ByName - маршрут по имени
func ByName(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return NotFound, false
}

// Match сопоставляет конкретный путь (без query) с таблицей маршрутов
func Match(path string) (Route, map[string]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := split(path)
	for _, r := range Routes {
		if params, ok := matchSegments(split(r.Path), segments); ok {
			return r, params, true
		}
	}
	return NotFound, nil, false
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		switch {
		case strings.HasPrefix(p, ":"):
			if segments[i] == "" {
				return nil, false
			}
			params[p[1:]] = segments[i]
		case p != segments[i]:
			return nil, false
		}
	}
	return params, true
}
