package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheRouter sets a default cache-control header on every response.
// The zero value disables caching, which is what most of the poster
// endpoints want; fetch routes can mount their own with a CacheTime.
type CacheRouter struct {
	CacheTime int // seconds, <= 0 means no-cache
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime <= 0 {
			c.Header("cache-control", "no-cache")
		} else {
			c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
