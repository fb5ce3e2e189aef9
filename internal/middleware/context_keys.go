package middleware

import "github.com/gin-gonic/gin"

// usernameKey is the key used to store the authenticated username in the
// request context.
const usernameKey = contextKey("username")

// GetUsernameFromContext retrieves the authenticated username from the Gin
// context. It returns the username and a boolean indicating if it was found.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(usernameKey); v != nil {
		if username, ok := v.(string); ok {
			return username, true
		}
	}
	return "", false
}
