package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

const currentUserKey = "truckflow.current_user"

// CurrentUser returns the principal the auth gate resolved for this request.
// Handlers behind Auth can rely on it being present.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func setCurrentUser(c *gin.Context, user models.User) {
	c.Set(currentUserKey, user)
}
