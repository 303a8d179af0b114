package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/models"
)

// ActorContextKey is where the auth middleware stores the request identity.
const ActorContextKey = "actor"

// CurrentActor returns the identity the auth middleware attached to the
// request. Routes behind the middleware always have one; the zero Actor is
// returned otherwise.
func CurrentActor(c *gin.Context) models.Actor {
	if v, ok := c.Get(ActorContextKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}
