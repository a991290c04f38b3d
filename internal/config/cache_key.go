package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding the user ID bound to a session token ID.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// ClassListKey returns the cache key for the serialized class list.
func (r *CacheKeyStruct) ClassListKey() string {
	return "classes:all"
}

// ClassActivityChannel returns the Redis PubSub channel name for a class activity feed.
func (r *CacheKeyStruct) ClassActivityChannel(classID int) string {
	return fmt.Sprintf("class:%d:activity", classID)
}

var CacheKey = NewCacheKeyStruct()
