package seoshop

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SessionCookie    = "seoshop_app_session"
	SessionCookieSig = "seoshop_app_session.sig"
)

// VerifyCallback authenticates the query the platform appends to the install
// and app links. The resulting session is stored and attached to the context.
func (a *App) VerifyCallback(c *gin.Context) {
	logger := a.requestLogger(c).With("action", "VerifyCallback")
	sess, err := a.VerifyQuery(c.Request.URL.Query())
	if err != nil {
		logger.With("error", err).Debug("callback verification failed")
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}
	if _, err = sanitizeShopID(sess.ShopID); err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	if _, err = sanitizeLanguage(sess.Language); err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	logger = logger.With(log.String("shop", sess.ShopID))
	logger.Debug("callback verified, storing session")
	if err = a.SessionStore.Store(c.Request.Context(), sess); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("failed to store session: %w", err))
		return
	}
	setSession(c, sess)
}

// Install completes an installation: it verifies the callback, registers the
// install webhooks, runs the install hook and redirects into the app with a
// session token.
func (a *App) Install(c *gin.Context) {
	a.VerifyCallback(c)
	if c.IsAborted() {
		return
	}
	sess := MustGetShopSession(c)
	logger := a.requestLogger(c).With("action", "Install", log.String("shop", sess.ShopID))
	logger.Debug("performing install")

	for _, wh := range a.installHooks {
		hook := *wh
		address, err := a.resolveAddress(hook.Address)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		hook.Address = address
		logger.With("webhook", hook).Debug("registering install webhook")
		if _, err = a.RegisterWebhook(c.Request.Context(), sess, &hook); err != nil {
			// The installation itself succeeded; a missing webhook is recoverable
			// on the next install.
			logger.With("webhook", hook, "error", err).Warn("registering install webhook failed")
		}
	}
	if a.installHook != nil {
		logger.Debug("calling install hook")
		a.installHook(sess)
	}

	token, err := a.SessionToken(sess)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("failed to issue session token: %w", err))
		return
	}
	expires := time.Now().Add(a.tokenTTL)
	setSignedCookie(c.Writer, a.AppSecret, SessionCookie, sess.ID, "/", &expires)

	query := url.Values{
		"shop_id":  {sess.ShopID},
		"language": {sess.Language},
		"token":    {token},
	}
	redirect := a.redirectPath + "?" + query.Encode()
	logger.With(log.String("redirect", a.redirectPath)).Debug("app installed, redirecting to app")
	c.Redirect(http.StatusFound, redirect)
	c.Abort()
}

// ValidateAuthenticatedSession loads the session named by the bearer token or,
// failing that, by the signed session cookie.
func (a *App) ValidateAuthenticatedSession(c *gin.Context) {
	logger := a.requestLogger(c).With("action", "ValidateAuthenticatedSession")
	sessID, err := a.getSessionID(c)
	if err != nil {
		logger.With("error", err).Debug("no valid session id")
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}
	sess, err := a.SessionStore.Get(c.Request.Context(), sessID)
	if IsNotFound(err) {
		logger.With(log.String("session", sessID)).Debug("session not found")
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	} else if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	setSession(c, sess)
}

// Uninstall removes the stored session of the authenticated shop.
func (a *App) Uninstall(c *gin.Context) {
	sess, ok := GetShopSession(c)
	if !ok {
		_ = c.AbortWithError(http.StatusUnauthorized, errors.New("context doesn't hold session"))
		return
	}
	if err := a.SessionStore.Delete(c.Request.Context(), sess.ID); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	deleteCookies(c.Writer, SessionCookie, SessionCookieSig)
	c.Status(http.StatusNoContent)
}

func (a *App) getSessionID(c *gin.Context) (string, error) {
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && token != "" {
		return a.parseSessionToken(token)
	}
	if err := validateCookieSignature(c.Request, a.AppSecret, SessionCookie); err != nil {
		deleteCookies(c.Writer, SessionCookie, SessionCookieSig)
		return "", err
	}
	return c.Cookie(SessionCookie)
}

func (a *App) resolveAddress(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("malformed webhook address %q: %w", address, err)
	}
	if u.IsAbs() {
		return address, nil
	}
	return url.JoinPath(a.HostURL, address)
}
