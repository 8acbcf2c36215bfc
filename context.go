package seoshop

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "log/slog"
)

const ShopSessionKey = "SEOshopSessionKey"

// Trace tags the request with a trace id that requestLogger attaches to every
// log line. It is a no-op unless the app was built WithTraceID.
func (a *App) Trace(c *gin.Context) {
	if !a.withTraceID {
		return
	}
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(TraceIDKey, id)
	c.Header("X-Request-ID", id)
}

func (a *App) requestLogger(c *gin.Context) *log.Logger {
	logger := a.Client.logger
	if a.withTraceID {
		if id, ok := c.Get(TraceIDKey); ok {
			return logger.With("trace", id)
		}
	}
	return logger
}

func setSession(c *gin.Context, sess *Session) {
	c.Set(ShopSessionKey, sess)
}

func GetShopSession(c *gin.Context) (*Session, bool) {
	sess, ok := c.Get(ShopSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := sess.(*Session)
	return s, ok && s != nil
}

func MustGetShopSession(c *gin.Context) *Session {
	sess, ok := GetShopSession(c)
	if !ok {
		panic("context doesn't hold session")
	}
	return sess
}
