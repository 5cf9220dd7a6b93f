package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"wildhaven/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// authCacheTTL is how long a verified token hash stays warm in the auth cache.
const authCacheTTL = time.Hour

// JWTAuthMiddleware authenticates requests with tokens minted by the remote
// auth service. Verified token hashes are cached so repeat requests skip the
// signature check.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		role, err := utils.ExtractRoleFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + userID

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			switch {
			case err == nil && cachedHash == computedHash:
				_ = authCache.Expire(ctx, cacheKey, authCacheTTL).Err()
			case err == nil || err == redis.Nil:
				_ = authCache.Set(ctx, cacheKey, computedHash, authCacheTTL).Err()
			default:
				log.Printf("WARNING: Error reading auth cache key: %v", err)
			}
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// RequireOwner gates owner-only routes behind the "owner" role claim.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "owner" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Owner access required",
				"code":  0,
			})
			return
		}
		c.Next()
	}
}
