package guard

import (
	"net/url"
	"strings"
)

type Action int

const (
	Proceed Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "proceed"
	}
}

// Decision - результат проверки перехода. Location и ReturnTo - пути приложения без basePath
type Decision struct {
	Action   Action
	Location string
	ReturnTo string
}

// Decide - чистая функция проверки перехода.
// requiresAuth проверяется раньше guestOnly, маршрут без меты пропускается всегда
func Decide(meta Meta, authenticated bool, fullPath, basePath string) Decision {
	if meta.RequiresAuth {
		if authenticated {
			return Decision{Action: Proceed}
		}
		returnTo := StripBase(fullPath, basePath)
		return Decision{Action: RedirectLogin, Location: LoginLocation(returnTo), ReturnTo: returnTo}
	}
	if meta.GuestOnly && authenticated {
		return Decision{Action: RedirectHome, Location: HomePath}
	}
	return Decision{Action: Proceed}
}

// LoginLocation - /login?redirect=<returnTo>
func LoginLocation(returnTo string) string {
	if returnTo == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{RedirectParam: {returnTo}}.Encode()
}

// StripBase убирает префикс развертывания: /app/posts/1 -> /posts/1
func StripBase(fullPath, basePath string) string {
	base := strings.TrimRight(basePath, "/")
	if base == "" {
		return ensureLeadingSlash(fullPath)
	}
	if fullPath == base {
		return HomePath
	}
	if strings.HasPrefix(fullPath, base) {
		rest := fullPath[len(base):]
		if rest[0] == '/' || rest[0] == '?' {
			return ensureLeadingSlash(rest)
		}
	}
	return ensureLeadingSlash(fullPath)
}

// WithBase - обратная к StripBase операция для HTTP-редиректов
func WithBase(basePath, location string) string {
	base := strings.TrimRight(basePath, "/")
	if base == "" {
		return location
	}
	return base + ensureLeadingSlash(location)
}

// SafeRedirect принимает только локальные пути приложения, иначе HomePath
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return HomePath
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return HomePath
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return HomePath
	}
	return target
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
