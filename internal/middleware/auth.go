// Package middleware содержит HTTP middleware микросайта клуба.
package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
)

// AdminKeyHeader задаёт заголовок, в котором панель администратора передаёт ключ.
const AdminKeyHeader = "X-Admin-Key"

// AdminMiddleware пропускает к административным маршрутам только запросы с верным ключом.
type AdminMiddleware struct {
	keyDigest []byte
}

// NewAdminMiddleware создаёт middleware с ключом key. Пустой ключ отключает проверку.
func NewAdminMiddleware(key string) *AdminMiddleware {
	if key == "" {
		return &AdminMiddleware{}
	}
	return &AdminMiddleware{keyDigest: digest(key)}
}

// Enabled сообщает, включена ли проверка ключа.
func (a *AdminMiddleware) Enabled() bool {
	return len(a.keyDigest) > 0
}

// Middleware проверяет ключ администратора в заголовке запроса.
func (a *AdminMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(AdminKeyHeader)
		if key == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !hmac.Equal(digest(key), a.keyDigest) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// digest приводит ключи к одной длине, чтобы сравнение не зависело от длины ключа.
func digest(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}
