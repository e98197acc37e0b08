package store

import (
	"strings"

	"socialweb/models"
)

const (
	ProfilePicturesFolder  = "static/profile_pictures"
	BackgroundImagesFolder = "static/background_images"
)

// NormalizeMediaPath приводит путь к медиафайлу к виду /<folder>/<file>.
// Пустой путь остается пустым, повторы folder схлопываются, голое имя файла
// получает префикс папки. Папка ищется только как целые сегменты пути.
// Абсолютные URL и прочие пути возвращаются без изменений.
func NormalizeMediaPath(path, folder string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.Contains(path, "://") {
		return path
	}
	folder = strings.Trim(folder, "/")

	if idx := folderIndex(path, folder); idx >= 0 {
		rest := strings.TrimLeft(path[idx+len(folder):], "/")
		return "/" + folder + "/" + rest
	}
	if !strings.ContainsAny(path, `/\`) {
		return "/" + folder + "/" + path
	}
	return path
}

// folderIndex - последнее вхождение folder, ограниченное '/' или краями строки
func folderIndex(path, folder string) int {
	end := len(path)
	for {
		idx := strings.LastIndex(path[:end], folder)
		if idx < 0 {
			return -1
		}
		after := idx + len(folder)
		if (idx == 0 || path[idx-1] == '/') && (after == len(path) || path[after] == '/') {
			return idx
		}
		end = after - 1
	}
}

func NormalizeProfilePicture(path string) string {
	return NormalizeMediaPath(path, ProfilePicturesFolder)
}

func NormalizeBackgroundImage(path string) string {
	return NormalizeMediaPath(path, BackgroundImagesFolder)
}

// normalizeUser - все пользователи проходят через эту функцию перед записью в кеш
func normalizeUser(u models.User) models.User {
	u.ProfilePicture = NormalizeProfilePicture(u.ProfilePicture)
	u.BackgroundImage = NormalizeBackgroundImage(u.BackgroundImage)
	return u
}

func normalizeUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = normalizeUser(u)
	}
	return out
}
