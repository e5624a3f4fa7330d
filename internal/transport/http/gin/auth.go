package httpgin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserID = "user_id"

// AuthRequired validates a Bearer access token (HS256) and injects the
// subject claim into the context as the holder identity. Holder identity is
// only ever taken from the token, never from request bodies.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseBearer(c, secret)
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				ErrorResponse{Error: "invalid or missing token"},
			)
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// AuthOptional injects the holder identity when a valid token is present
// and lets the request through anonymously otherwise. Used on read paths
// where a holder sees their own held seats as available.
func AuthOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseBearer(c, secret); ok {
			c.Set(ctxUserID, userID)
		}

		c.Next()
	}
}

func parseBearer(c *gin.Context, secret string) (int64, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}

	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	return subjectID(claims["sub"])
}

// subjectID normalizes the sub claim: numeric subs survive JSON decoding as
// float64, string subs come from issuers that stringify ids.
func subjectID(sub any) (int64, bool) {
	switch v := sub.(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func userIDFrom(c *gin.Context) int64 {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0
	}

	id, _ := v.(int64)

	return id
}
