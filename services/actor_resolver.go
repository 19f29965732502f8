package services

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/middleware"
	"github.com/assistec/assistec-api/models"
)

// ActorProvider resolves the system user credited with a mutation. Every
// workflow endpoint resolves its actor through this interface before touching
// the database; a resolution failure aborts the request with zero writes.
type ActorProvider interface {
	ResolveActor(c *gin.Context) (*models.User, error)
}

// ActorStrategy is one step of actor resolution. It returns (nil, nil) when
// it cannot decide, so the resolver can fall through to the next strategy.
type ActorStrategy func(c *gin.Context) (*models.User, error)

// ActorResolver tries an ordered list of strategies and short-circuits on the
// first hit: context cache, then token-subject lookup, then a direct
// /userinfo call to Auth0 as the last resort.
type ActorResolver struct {
	strategies []ActorStrategy
}

// AuthResolutionError indicates the acting user could not be determined
type AuthResolutionError struct {
	Code    string
	Message string
}

func (e *AuthResolutionError) Error() string {
	return e.Message
}

var actorProviderInstance ActorProvider

// InitActorResolver builds the default resolver chain and registers it as
// the global actor provider.
func InitActorResolver(auth0 *Auth0Service) ActorProvider {
	resolver := &ActorResolver{
		strategies: []ActorStrategy{
			contextCachedActor,
			tokenSubjectActor,
			userinfoActor(auth0),
		},
	}
	actorProviderInstance = resolver
	return resolver
}

// GetActorProvider returns the registered actor provider instance
func GetActorProvider() ActorProvider {
	return actorProviderInstance
}

// SetActorProvider sets the actor provider instance (primarily for testing)
func SetActorProvider(provider ActorProvider) {
	actorProviderInstance = provider
}

// ResolveActor runs the strategies in order and caches the winner in the Gin
// context so later calls within the same request are free.
func (r *ActorResolver) ResolveActor(c *gin.Context) (*models.User, error) {
	for _, strategy := range r.strategies {
		user, err := strategy(c)
		if err != nil {
			// A failed step is logged and falls through to the next one
			log.Printf("actor resolution step failed: %v", err)
			continue
		}
		if user != nil {
			c.Set("resolved_actor", user)
			return user, nil
		}
	}

	return nil, &AuthResolutionError{
		Code:    "AUTH_RESOLUTION_FAILED",
		Message: "Could not determine the acting user",
	}
}

// contextCachedActor returns the actor already resolved earlier in this
// request, if any.
func contextCachedActor(c *gin.Context) (*models.User, error) {
	cached, exists := c.Get("resolved_actor")
	if !exists {
		return nil, nil
	}
	user, ok := cached.(*models.User)
	if !ok {
		return nil, nil
	}
	return user, nil
}

// tokenSubjectActor looks the actor up by the Auth0 subject the JWT
// middleware stored in the context.
func tokenSubjectActor(c *gin.Context) (*models.User, error) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, nil
	}

	var user models.User
	if err := config.GetDB().Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		return nil, nil
	}
	return &user, nil
}

// userinfoActor calls Auth0's /userinfo endpoint with the request's access
// token and matches the returned identity against the system users table.
// This is the resolution of last resort: it covers tokens whose subject is
// not provisioned locally yet but whose email is.
func userinfoActor(auth0 *Auth0Service) ActorStrategy {
	return func(c *gin.Context) (*models.User, error) {
		if auth0 == nil {
			return nil, nil
		}

		accessToken, err := middleware.GetAccessToken(c)
		if err != nil {
			return nil, nil
		}

		userInfo, err := auth0.GetUserInfo(accessToken)
		if err != nil {
			return nil, err
		}

		db := config.GetDB()
		var user models.User
		if err := db.Where("auth0_id = ?", userInfo.Sub).First(&user).Error; err == nil {
			return &user, nil
		}
		if userInfo.Email == "" {
			return nil, nil
		}
		if err := db.Where("email = ?", userInfo.Email).First(&user).Error; err != nil {
			return nil, nil
		}
		return &user, nil
	}
}
