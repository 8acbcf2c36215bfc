package seoshop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"
)

func cookieSignature(key string, val string) string {
	hash := hmac.New(sha256.New, []byte(key))
	hash.Write([]byte(val))
	return hex.EncodeToString(hash.Sum(nil))
}

func setSignedCookie(w http.ResponseWriter, key string, name string, val string, path string, exp *time.Time) {
	var expires time.Time
	if exp == nil {
		expires = time.Now().Add(365 * 24 * time.Hour)
	} else {
		expires = *exp
	}
	for _, cookie := range []*http.Cookie{
		{Name: name, Value: val},
		{Name: name + ".sig", Value: cookieSignature(key, val)},
	} {
		cookie.Path = path
		cookie.Expires = expires
		cookie.Secure = true
		cookie.HttpOnly = true
		cookie.SameSite = http.SameSiteLaxMode
		http.SetCookie(w, cookie)
	}
}

func validateCookieSignature(r *http.Request, key string, name string) error {
	cookie, err := r.Cookie(name)
	if err != nil {
		return errors.New("could not read cookie")
	}
	sig, err := r.Cookie(name + ".sig")
	if err != nil {
		return errors.New("could not read cookie signature")
	}
	if !hmac.Equal([]byte(cookieSignature(key, cookie.Value)), []byte(sig.Value)) {
		return errors.New("invalid cookie signature")
	}
	return nil
}

func deleteCookies(w http.ResponseWriter, names ...string) {
	for _, name := range names {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", Expires: time.Unix(0, 0)})
	}
}
